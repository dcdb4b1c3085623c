// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package validation

import (
	"strings"
	"testing"
)

type sendInput struct {
	Text string `validate:"required,chatmessage"`
}

type uploadInput struct {
	MIME    string `validate:"required,uploadmime"`
	Privacy string `validate:"required,mediaprivacy"`
}

func TestChatMessageRule(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"plain text", "hello there", true},
		{"exactly 200 runes", strings.Repeat("a", 200), true},
		{"201 runes", strings.Repeat("a", 201), false},
		{"whitespace only", "   \t\n", false},
		{"empty", "", false},
		{"multibyte within limit", strings.Repeat("ñ", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&sendInput{Text: tt.text})
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation failure, got nil")
			}
		})
	}
}

func TestUploadRules(t *testing.T) {
	if err := ValidateStruct(&uploadInput{MIME: "image/png", Privacy: "friends"}); err != nil {
		t.Fatalf("expected valid upload input, got %v", err)
	}

	err := ValidateStruct(&uploadInput{MIME: "application/pdf", Privacy: "friends"})
	if err == nil {
		t.Fatal("expected MIME failure")
	}
	if !strings.Contains(err.Error(), "not a supported image or video type") {
		t.Errorf("unexpected message: %q", err.Error())
	}

	if err := ValidateStruct(&uploadInput{MIME: "video/mp4", Privacy: "everyone"}); err == nil {
		t.Fatal("expected privacy enum failure")
	}
}

func TestInputErrorJoinsMessages(t *testing.T) {
	err := ValidateStruct(&uploadInput{})
	if err == nil {
		t.Fatal("expected failures for zero value")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors()))
	}
	if !strings.Contains(err.Error(), ";") {
		t.Errorf("expected joined messages, got %q", err.Error())
	}
}
