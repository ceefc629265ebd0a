package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/youruser/cardcomposer/internal/api"
	"github.com/youruser/cardcomposer/internal/logger"
	"github.com/youruser/cardcomposer/internal/util"
)

var (
	requestFile string
	outFile     string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a card from a request file without starting the server",
	Example: `$ cardcomposer render --request card.json --out card.jpg
$ cat card.json | cardcomposer render --out card.jpg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outFile == "" {
			return fmt.Errorf("--out is required")
		}
		var raw []byte
		var err error
		if requestFile == "" || requestFile == "-" {
			raw, err = io.ReadAll(cmd.InOrStdin())
		} else {
			raw, err = os.ReadFile(requestFile)
		}
		if err != nil {
			return fmt.Errorf("read request: %w", err)
		}
		var req api.RenderRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return fmt.Errorf("parse request: %w", err)
		}

		g, err := buildGraph(cfg)
		if err != nil {
			return err
		}
		comp := g.compositor
		if name := strings.ToLower(strings.TrimSpace(req.Preset)); name != "" && name != "default" {
			var ok bool
			if comp, ok = g.presets[name]; !ok {
				return fmt.Errorf("unknown preset %q", req.Preset)
			}
		}

		content, err := req.Normalize(cfg.Request.ContentRules())
		if err != nil {
			return err
		}
		photo, err := req.LoadImage(cmd.Context(), g.fetcher)
		if err != nil {
			return err
		}
		res, err := comp.Compose(cmd.Context(), photo, content)
		if err != nil {
			return err
		}
		buf := new(bytes.Buffer)
		if err := comp.EncodeJPEG(buf, res.Image); err != nil {
			return err
		}
		if err := util.WriteFile(outFile, buf.Bytes()); err != nil {
			return err
		}
		logger.WithNamespace("render").
			WithField("clipped", res.Layout.Overflowed).
			Infof("wrote %s (%s)", outFile, humanize.Bytes(uint64(buf.Len())))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&requestFile, "request", "r", "", "request JSON file, - for stdin")
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "output JPEG file")
}
