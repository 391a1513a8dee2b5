package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sschindler/transcode-sync/pkg/transcode"
)

// printCodecs renders the encoder and decoder catalogs with their
// availability, the --codecs listing.
func printCodecs(out io.Writer, engine *transcode.Engine) {
	fmt.Fprintln(out, "Encoders:")
	fmt.Fprintln(out, renderCodecTable("ENCODER", engine, engine.Encoders))
	fmt.Fprintln(out, "Decoders:")
	fmt.Fprintln(out, renderCodecTable("DECODER", engine, engine.Decoders))
}

func renderCodecTable(kind string, engine *transcode.Engine, codecs []transcode.Codec) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{kind, "INSTALLED", "FILETYPE"})

	for _, c := range codecs {
		installed := "no"
		if engine.Installed(c) {
			installed = "yes"
		}
		tw.AppendRow(table.Row{c.Program(), installed, c.Filetype})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
