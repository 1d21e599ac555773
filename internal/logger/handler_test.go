package logger

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"log/slog"
)

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatKV,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	ctx := WithRID(context.Background(), "42:7:9")
	ctx = WithUpdateMeta(ctx, 42, 9, 7)

	log := slog.New(handler).With("component", "bot")
	LogEvent(ctx, log, slog.LevelInfo, "test.event",
		slog.String("status", "ok"),
		slog.String("cause", "unit"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	tokens := strings.Split(line, " ")
	if len(tokens) < 6 {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	expected := []string{"ts=", "level=INFO", "component=bot", "event=test.event", "status=ok", "rid=42:7:9"}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatJSON,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	ctx := WithRID(context.Background(), "11:33:22")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)

	log := slog.New(handler).With("component", "shop")
	LogEvent(ctx, log, slog.LevelError, "request.failed",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
		slog.String("err_code", "CMS_STATUS"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"shop"`, `"event":"request.failed"`, `"status":"fail"`, `"rid":"11:33:22"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatKV,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	ctx := WithUpdateMeta(context.Background(), 100, 55, 77)
	ctx = WithHandler(ctx, "handleCart")

	log := slog.New(handler).With("component", "bot")
	LogEvent(ctx, log, slog.LevelInfo, "state.moved",
		slog.String("state", "HANDLE_CART"),
		slog.String("next_state", "WAIT_EMAIL"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	for _, want := range []string{"update_id=100", "user_id=55", "chat_id=77", "handler=handleCart", "state=HANDLE_CART", "next_state=WAIT_EMAIL"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %s", want, line)
		}
	}
}

func TestBuildRID(t *testing.T) {
	if got := BuildRID(42, 7, 9); got != "42:7:9" {
		t.Fatalf("BuildRID = %s", got)
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "bad\x00input\x1bhere"
	if out := Sanitize(in); out != "badinputhere" {
		t.Fatalf("control chars survived: %q", out)
	}
	long := strings.Repeat("x", 300)
	if got := SanitizeLimit(long, 10); len(got) != 10 {
		t.Fatalf("limit not applied: %d", len(got))
	}
}
