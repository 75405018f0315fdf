package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLoadConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openai", "config.yaml")
	cfg, err := LoadConfigWithPath("openai", path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}
	if cfg.Path() != path || cfg.Dir() != filepath.Dir(path) {
		t.Errorf("Path = %q, Dir = %q", cfg.Path(), cfg.Dir())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if len(cfg.Contexts) != 0 {
		t.Errorf("Contexts = %v, want empty", cfg.Contexts)
	}
}

func TestContextLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath("openai", path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := cfg.ResolveContext(""); err == nil {
		t.Fatal("ResolveContext with no current context: want error")
	}

	prod := &Context{APIKey: "sk-prod-1234567890", Model: "gpt-4o-realtime-preview"}
	prod.SetExtra("org", "org-1")
	if err := cfg.AddContext("prod", prod); err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddContext("dev", &Context{APIKey: "sk-dev"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UseContext("prod"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UseContext("missing"); err == nil {
		t.Fatal("UseContext(missing): want error")
	}

	reloaded, err := LoadConfigWithPath("openai", path)
	if err != nil {
		t.Fatal(err)
	}
	ctx, err := reloaded.ResolveContext("")
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Name != "prod" || ctx.APIKey != "sk-prod-1234567890" || ctx.GetExtra("org") != "org-1" {
		t.Errorf("reloaded context = %+v", ctx)
	}
	if got := reloaded.ListContexts(); !slices.Equal(got, []string{"dev", "prod"}) {
		t.Errorf("ListContexts = %v", got)
	}

	if err := reloaded.DeleteContext("prod"); err != nil {
		t.Fatal(err)
	}
	if reloaded.CurrentContext != "" {
		t.Errorf("CurrentContext = %q after deleting it", reloaded.CurrentContext)
	}
	if err := reloaded.DeleteContext("prod"); err == nil {
		t.Fatal("DeleteContext twice: want error")
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"short", "*****"},
		{"sk-abcdefgh1234", "sk-a*******1234"},
	}
	for _, tt := range tests {
		if got := MaskAPIKey(tt.in); got != tt.want {
			t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
