// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/spf13/pflag"

	"go.delbin.dev/delbin"
	"go.delbin.dev/delbin/value"
)

type cmdServe struct {
	addr string
}

func (*cmdServe) help() *commandHelp {
	return &commandHelp{
		usage:   "serve",
		summary: "run an HTTP server exposing generate/generate-hex/merge",
	}
}

func (cmd *cmdServe) flags(flags *pflag.FlagSet) {
	flags.StringVar(&cmd.addr, "addr", "127.0.0.1:8080", "listen address")
}

func (cmd *cmdServe) run(ctx context.Context, argv []string) int {
	log := newJSONLogger()

	e := echo.New()
	e.Use(middleware.Recover())
	srv := &delbinServer{log: log}
	srv.register(e)

	log.Info("starting server", "address", cmd.addr)
	sc := echo.StartConfig{
		Address: cmd.addr,
		BeforeServeFunc: func(s *http.Server) error {
			s.ReadHeaderTimeout = 30 * time.Second
			return nil
		},
	}
	if err := sc.Start(ctx, e); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

type delbinServer struct {
	log logger
}

func (s *delbinServer) register(e *echo.Echo) {
	e.POST("/v1/generate", s.handleGenerate)
	e.POST("/v1/generate-hex", s.handleGenerateHex)
	e.POST("/v1/merge", s.handleMerge)
}

// compileRequest is the shared JSON shape of /v1/generate, /v1/generate-hex,
// and /v1/merge: schema text plus an environment map (integers or strings)
// and base64-encoded section blobs.
type compileRequest struct {
	Schema   string            `json:"schema"`
	Env      map[string]any    `json:"env,omitempty"`
	Sections map[string]string `json:"sections,omitempty"` // name -> base64
	Image    string            `json:"image,omitempty"`    // base64, for /v1/merge
}

type compileResponse struct {
	RequestID string   `json:"request_id"`
	Bytes     string   `json:"bytes,omitempty"` // base64
	Hex       string   `json:"hex,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

func decodeRequest(r io.Reader) (compileRequest, error) {
	var req compileRequest
	dec := json.NewDecoder(r)
	if err := dec.Decode(&req); err != nil {
		return compileRequest{}, err
	}
	return req, nil
}

func (req compileRequest) env() (delbin.Env, error) {
	if len(req.Env) == 0 {
		return nil, nil
	}
	out := make(delbin.Env, len(req.Env))
	for name, v := range req.Env {
		switch x := v.(type) {
		case float64:
			out[name] = value.Int(uint64(int64(x)), x < 0)
		case string:
			out[name] = value.Bytes([]byte(x))
		default:
			return nil, fmt.Errorf("env entry %q has unsupported JSON type", name)
		}
	}
	return out, nil
}

func (req compileRequest) sections() (delbin.Sections, error) {
	if len(req.Sections) == 0 {
		return nil, nil
	}
	out := make(delbin.Sections, len(req.Sections))
	for name, b64 := range req.Sections {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", name, err)
		}
		out[name] = raw
	}
	return out, nil
}

func warningStrings(warnings []*delbin.Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}

func (s *delbinServer) handleGenerate(c *echo.Context) error {
	requestID := uuid.NewString()
	req, err := decodeRequest(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	env, err := req.env()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	sections, err := req.sections()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := delbin.Generate(req.Schema, env, sections)
	if err != nil {
		s.log.Error("generate failed", "request_id", requestID, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error(), "request_id": requestID})
	}
	s.log.Info("generate ok", "request_id", requestID, "bytes", len(result.Bytes))
	return c.JSON(http.StatusOK, compileResponse{
		RequestID: requestID,
		Bytes:     base64.StdEncoding.EncodeToString(result.Bytes),
		Warnings:  warningStrings(result.Warnings),
	})
}

func (s *delbinServer) handleGenerateHex(c *echo.Context) error {
	requestID := uuid.NewString()
	req, err := decodeRequest(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	env, err := req.env()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	sections, err := req.sections()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	hexStr, err := delbin.GenerateHex(req.Schema, env, sections)
	if err != nil {
		s.log.Error("generate-hex failed", "request_id", requestID, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error(), "request_id": requestID})
	}
	s.log.Info("generate-hex ok", "request_id", requestID)
	return c.JSON(http.StatusOK, compileResponse{RequestID: requestID, Hex: hexStr})
}

func (s *delbinServer) handleMerge(c *echo.Context) error {
	requestID := uuid.NewString()
	req, err := decodeRequest(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	env, err := req.env()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("image: %v", err)})
	}

	result, err := delbin.Merge(req.Schema, env, image)
	if err != nil {
		s.log.Error("merge failed", "request_id", requestID, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error(), "request_id": requestID})
	}
	s.log.Info("merge ok", "request_id", requestID, "bytes", len(result.Bytes))
	return c.JSON(http.StatusOK, compileResponse{
		RequestID: requestID,
		Bytes:     base64.StdEncoding.EncodeToString(result.Bytes),
		Warnings:  warningStrings(result.Warnings),
	})
}
