// Copyright 2025 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pjscruggs/slogcp"
	"github.com/pjscruggs/structval"
	"github.com/pjscruggs/structval/structvalslog"
	"github.com/pjscruggs/structval/structvalzap"
	"github.com/pjscruggs/structval/structvalzerolog"
	"github.com/rs/zerolog"
	"go.uber.org/zap"
)

var cli struct {
	Backend string `help:"Backend to drive." enum:"zap,slog,zerolog,all" default:"all"`
	Payload string `help:"Raw JSON document to log instead of the built-in sample." placeholder:"JSON"`
}

// order is a domain value whose encoding/json tags shape the logged
// structure: origin inlines from the embedded struct, Secret never leaves
// the process.
type order struct {
	orderMeta
	ID     string  `json:"id"`
	Total  float64 `json:"total"`
	Note   string  `json:"note,omitempty"`
	Secret string  `json:"-"`
}

type orderMeta struct {
	Origin string `json:"origin"`
}

// A minimal runnable example that logs the same JSON-like values through
// zap, slog (backed by slogcp) and zerolog without flattening them to
// strings.
func main() {
	ctx := kong.Parse(&cli,
		kong.Name("demo"),
		kong.Description("Logs JSON-like values as structured fields through zap, slog and zerolog."),
	)

	payload := cli.Payload
	if payload == "" {
		payload = `{"id":"abc","tags":[1,2,3],"meta":null}`
	}
	doc, err := structval.Parse([]byte(payload))
	ctx.FatalIfErrorf(err)

	sample, err := structval.ToValue(order{
		orderMeta: orderMeta{Origin: "api"},
		ID:        "abc",
		Total:     19.99,
		Secret:    "do-not-log",
	})
	ctx.FatalIfErrorf(err)

	probes := structval.Wrap(map[string]any{
		"bool":   true,
		"string": "hey",
		"int":    42,
		"null":   nil,
	})

	if cli.Backend == "zap" || cli.Backend == "all" {
		logZap(doc, sample, probes)
	}
	if cli.Backend == "slog" || cli.Backend == "all" {
		ctx.FatalIfErrorf(logSlog(doc, sample, probes))
	}
	if cli.Backend == "zerolog" || cli.Backend == "all" {
		logZerolog(doc, sample, probes)
	}
}

func logZap(doc, sample, probes structval.Value) {
	logger := zap.NewExample()

	logger.Info("payload received", structvalzap.Field("payload", doc))
	logger.Info("order created", structvalzap.Field("order", sample))
	logger.Info("scalar probes", structvalzap.Field("probes", probes))
}

func logSlog(doc, sample, probes structval.Value) error {
	handler, err := slogcp.NewHandler(os.Stdout)
	if err != nil {
		return err
	}
	logger := slog.New(handler)
	c := context.Background()

	logger.LogAttrs(c, slog.LevelInfo, "payload received", structvalslog.Attr("payload", doc))
	logger.LogAttrs(c, slog.LevelInfo, "order created", structvalslog.Attr("order", sample))
	logger.LogAttrs(c, slog.LevelInfo, "scalar probes", structvalslog.Attr("probes", probes))
	return nil
}

func logZerolog(doc, sample, probes structval.Value) {
	logger := zerolog.New(os.Stdout)

	structvalzerolog.Add(logger.Info(), "payload", doc).Msg("payload received")
	structvalzerolog.Add(logger.Info(), "order", sample).Msg("order created")
	structvalzerolog.Add(logger.Info(), "probes", probes).Msg("scalar probes")
}
