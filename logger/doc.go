// Package logger wraps zerolog with the structured-field conventions used by
// the voice ordering pipeline: one global logger configured at startup and
// component loggers (audio, transcription, order, cache, server) derived from
// it with logger.Get.
//
//	logger.Init(logger.Config{Level: "debug", Format: "json"})
//	log := logger.Get("transcription")
//	log.Info("strategy finished", logger.Fields(logger.FieldStrategy, "continuous"))
package logger
