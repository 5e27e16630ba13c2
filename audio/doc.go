// Package audio coerces client audio into the format the speech recognizer
// accepts: a canonical WAV holding 16 kHz mono 16-bit PCM.
//
// WAV input is decoded natively. Compressed containers (webm, mp3, ogg, m4a)
// are piped through ffmpeg via the process package, entirely in memory. When
// nothing decodes, even-length input is taken to be headerless PCM already in
// the target format and wrapped in a synthesized header.
//
//	n := audio.NewNormalizer(audio.Config{})
//	out, err := n.Normalize(ctx, raw, "audio/webm")
package audio
