package config

import (
	"strings"
	"testing"
)

func TestValidateDetailed_Valid(t *testing.T) {
	cfg := DefaultConfig()
	result := cfg.ValidateDetailed()
	if !result.IsValid() {
		t.Errorf("expected valid config, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestValidateDetailed_MissingProjects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TSConfig = nil
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Error("expected invalid config")
	}
}

func TestValidateDetailed_DuplicateProject(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TSConfig = []string{"tsconfig.json", "./tsconfig.json"}
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Error("expected error for duplicate project")
	}
}

func TestValidateDetailed_ProjectDirectoryWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TSConfig = []string{"packages/core"}
	result := cfg.ValidateDetailed()
	if len(result.Warnings) == 0 {
		t.Error("expected warning for project without .json extension")
	}
}

func TestValidateDetailed_InvalidFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "xml"
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(result.Errors[0], "json, mp, msgpack") {
		t.Errorf("expected every accepted spelling listed, got %q", result.Errors[0])
	}
}

func TestValidateDetailed_InvalidLevelListsNamesOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "verbose"
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Fatal("expected error for invalid level")
	}
	if !strings.Contains(result.Errors[0], "debug, error, info, warn") {
		t.Errorf("expected canonical level names, got %q", result.Errors[0])
	}
	if strings.Contains(result.Errors[0], "-1") {
		t.Errorf("numeric levels should not be offered, got %q", result.Errors[0])
	}
}

func TestValidateDetailed_PrettyMsgpackWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "msgpack"
	cfg.Output.Pretty = true
	result := cfg.ValidateDetailed()
	if !result.IsValid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected warning for pretty msgpack")
	}
}

func TestValidateDetailed_StrictQuietWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Diagnostics.Strict = true
	cfg.Diagnostics.Quiet = true
	result := cfg.ValidateDetailed()
	if len(result.Warnings) == 0 {
		t.Error("expected warning for strict and quiet")
	}
}

func TestValidateDetailed_WeirdExcludePattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude = []string{"src/generated"}
	result := cfg.ValidateDetailed()
	if len(result.Warnings) == 0 {
		t.Error("expected warning for pattern without wildcard")
	}
}

func TestValidateDetailed_BadExcludePattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude = []string{"src/[a-"}
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Error("expected error for malformed pattern")
	}
}
