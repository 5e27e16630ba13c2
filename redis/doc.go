// Package redis wraps go-redis with the service's logging and key
// namespacing conventions.
//
// TypedStore provides JSON-encoded typed values, which the cache package
// uses for the shared parse cache:
//
//	client, _ := redis.New(redis.Config{Enabled: true, Addr: "localhost:6379"}, log)
//	store := redis.NewTypedStore[order.ParsedOrder](client, "parse")
package redis
