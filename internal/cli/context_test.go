package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/storage"
)

func TestResolveID(t *testing.T) {
	ids := []string{
		"0192d3a0-0000-7000-8000-aaaaaaaa1111",
		"0192d3a0-0000-7000-8000-bbbbbbbb2222",
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "full id", ref: ids[0], want: ids[0]},
		{name: "unique suffix", ref: "bbbb2222", want: ids[1]},
		{name: "ambiguous prefix", ref: "0192d3a0", wantErr: true},
		{name: "no match", ref: "zzzz", wantErr: true},
		{name: "blank", ref: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveID(ids, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("0192d3a0-0000-7000-8000-aaaaaaaa1111"); got != "aaaa1111" {
		t.Errorf("ShortID() = %q", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID(short) = %q", got)
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"line one\nline two", 40, "line one line two"},
		{"abcdefghij", 5, "abcd…"},
	}
	for _, tt := range tests {
		if got := Excerpt(tt.text, tt.n); got != tt.want {
			t.Errorf("Excerpt(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
		}
	}
}

func TestConfirm(t *testing.T) {
	asked := 0
	ctx := &Context{
		Store: storage.NewMemoryStore(),
		Prompt: func(title, description string) (bool, error) {
			asked++
			return false, nil
		},
	}

	ok, err := ctx.Confirm(true, "Delete?", "")
	if err != nil || !ok || asked != 0 {
		t.Errorf("Confirm(yes) = %v, %v after %d prompts", ok, err, asked)
	}

	ok, err = ctx.Confirm(false, "Delete?", "")
	if err != nil || ok || asked != 1 {
		t.Errorf("Confirm(no) = %v, %v after %d prompts", ok, err, asked)
	}

	ctx.Prompt = func(string, string) (bool, error) { return false, errors.New("no tty") }
	if _, err := ctx.Confirm(false, "Delete?", ""); err == nil {
		t.Error("expected prompt error to surface")
	}
}

func TestAppIsBuiltOnce(t *testing.T) {
	ctx := &Context{Store: storage.NewMemoryStore()}
	defer ctx.Close()

	a, err := ctx.App()
	if err != nil {
		t.Fatalf("App() failed: %v", err)
	}
	b, _ := ctx.App()
	if a != b {
		t.Error("App() built a second application")
	}
}

func TestNoticeWritesToStderr(t *testing.T) {
	var stderr bytes.Buffer
	ctx := &Context{Store: storage.NewMemoryStore(), Stderr: &stderr}
	defer ctx.Close()

	ctx.Notice(fmt.Errorf("save: %w", apperrors.ErrStorageWrite))
	if !strings.Contains(stderr.String(), "Couldn't save") {
		t.Errorf("stderr = %q, want the storage notice", stderr.String())
	}

	stderr.Reset()
	ctx.Notice(fmt.Errorf("load: %w", apperrors.ErrStorageRead))
	if stderr.Len() != 0 {
		t.Errorf("silent error printed %q", stderr.String())
	}
}
