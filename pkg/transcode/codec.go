package transcode

import "strings"

// Command templates may contain these placeholders. A decoder command reads
// {source} and writes WAV to stdout; an encoder command reads WAV from stdin
// and writes to {target} ("-" for stdout when streaming).
const (
	tokenSource  = "{source}"
	tokenTarget  = "{target}"
	tokenBitrate = "{bitrate}"
)

// Codec describes one external codec program invocation for a single file
// extension. The same type is used for decoders and encoders; which side a
// codec belongs to is determined by the Engine catalog it is listed in.
type Codec struct {
	Filetype string   // file extension handled, without the dot
	Command  []string // argv template with placeholder tokens
}

// Program returns the external executable the codec invokes.
func (c Codec) Program() string {
	return c.Command[0]
}

// expand substitutes the placeholder tokens into a copy of the command.
func (c Codec) expand(source, target, bitrate string) []string {
	argv := make([]string, len(c.Command))
	for i, arg := range c.Command {
		arg = strings.ReplaceAll(arg, tokenSource, source)
		arg = strings.ReplaceAll(arg, tokenTarget, target)
		arg = strings.ReplaceAll(arg, tokenBitrate, bitrate)
		argv[i] = arg
	}
	return argv
}
