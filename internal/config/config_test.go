package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		body    string // "" means no file
		want    Config
		wantErr bool
	}{
		{
			name: "defaults when missing",
			want: Config{LogLevel: "info", WhatsAppCountryCode: "55", ExportFormat: "xlsx"},
		},
		{
			name: "file overrides, format lowercased",
			body: `{"export_format": "CSV", "whatsapp_country_code": "351"}`,
			want: Config{LogLevel: "info", WhatsAppCountryCode: "351", ExportFormat: "csv"},
		},
		{
			name: "pool settings",
			body: `{"db_max_open_conns": 4, "db_max_idle_conns": 2}`,
			want: Config{LogLevel: "info", WhatsAppCountryCode: "55", ExportFormat: "xlsx", DBMaxOpenConns: 4, DBMaxIdleConns: 2},
		},
		{name: "invalid json", body: `{not json}`, wantErr: true},
		{name: "unknown export format", body: `{"export_format": "ods"}`, wantErr: true},
		{name: "unknown log level", body: `{"log_level": "loud"}`, wantErr: true},
		{name: "country code with plus", body: `{"whatsapp_country_code": "+55"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			if tc.body != "" {
				writeConfig(t, dir, tc.body)
			}

			cfg, err := Load(dir)
			if tc.wantErr {
				if err == nil {
					t.Fatal("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.LogLevel != tc.want.LogLevel || cfg.WhatsAppCountryCode != tc.want.WhatsAppCountryCode ||
				cfg.ExportFormat != tc.want.ExportFormat || cfg.DBMaxOpenConns != tc.want.DBMaxOpenConns ||
				cfg.DBMaxIdleConns != tc.want.DBMaxIdleConns {
				t.Errorf("Load() = %+v, want %+v", *cfg, tc.want)
			}
		})
	}
}

func TestLoad_AllowedPathsTrimmedAndDeduped(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"allowed_paths": ["/data/sheets", " /data/sheets ", "/tmp", ""]}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.AllowedPaths) != 2 || cfg.AllowedPaths[0] != "/data/sheets" || cfg.AllowedPaths[1] != "/tmp" {
		t.Errorf("AllowedPaths = %v, want [/data/sheets /tmp]", cfg.AllowedPaths)
	}
}

func TestLoadWithRepo(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()
	writeConfig(t, globalDir, `{"log_level": "warn", "export_format": "csv", "allowed_paths": ["/a"]}`)
	writeConfig(t, filepath.Join(repoRoot, DirName), `{"log_level": "debug", "allowed_paths": ["/b", "/a"]}`)

	start := filepath.Join(repoRoot, "src", "pkg")
	if err := os.MkdirAll(start, 0700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, start)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug (repo wins)", cfg.LogLevel)
	}
	if cfg.ExportFormat != "csv" {
		t.Errorf("ExportFormat = %q, want csv (from global)", cfg.ExportFormat)
	}
	if len(cfg.AllowedPaths) != 2 {
		t.Errorf("AllowedPaths = %v, want [/a /b]", cfg.AllowedPaths)
	}
}

func TestLoadWithRepo_Missing(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.ExportFormat != "xlsx" || len(cfg.AllowedPaths) != 0 {
		t.Errorf("LoadWithRepo() = %+v, want defaults", *cfg)
	}
}

func TestLoadWithRepo_InvalidRepoConfig(t *testing.T) {
	repoRoot := t.TempDir()
	writeConfig(t, filepath.Join(repoRoot, DirName), `{oops`)

	if _, err := LoadWithRepo(t.TempDir(), repoRoot); err == nil {
		t.Fatal("LoadWithRepo() expected error for invalid repo config")
	}
}

func TestMerge(t *testing.T) {
	base := &Config{LogLevel: "info", DBMaxOpenConns: 5, AllowUnsafePaths: true, AllowedPaths: []string{"/a", "/b"}}
	overlay := &Config{LogLevel: " error ", ExportFormat: "CSV", AllowedPaths: []string{"/b", "/c"}}

	got := Merge(base, overlay)

	if got.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error (overlay, trimmed)", got.LogLevel)
	}
	if got.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want 5 (zero overlay keeps base)", got.DBMaxOpenConns)
	}
	if !got.AllowUnsafePaths {
		t.Error("AllowUnsafePaths = false, want true (OR)")
	}
	if got.ExportFormat != "csv" {
		t.Errorf("ExportFormat = %q, want csv", got.ExportFormat)
	}
	if len(got.AllowedPaths) != 3 {
		t.Errorf("AllowedPaths = %v, want 3 entries", got.AllowedPaths)
	}
}

func TestValidate_Defaults(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
	if err := (&Config{DBMaxOpenConns: -1}).Validate(); err == nil {
		t.Error("Validate() accepted a negative pool size")
	}
}

func TestFindRepoConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, filepath.Join(root, DirName), `{}`)
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(deep, 0700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	want := filepath.Join(root, DirName, FileName)
	if got := FindRepoConfig(deep); got != want {
		t.Errorf("FindRepoConfig(deep) = %q, want %q", got, want)
	}
	if got := FindRepoConfig(t.TempDir()); got != "" {
		t.Errorf("FindRepoConfig(unrelated) = %q, want empty", got)
	}
	if got := FindRepoConfig(""); got != "" {
		t.Errorf("FindRepoConfig(\"\") = %q, want empty", got)
	}
}

func TestBaseDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	got, err := BaseDir()
	if err != nil {
		t.Fatalf("BaseDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("BaseDir() = %q, want %q", got, dir)
	}

	home := t.TempDir()
	t.Setenv(HomeEnv, "")
	t.Setenv("HOME", home)
	got, err = BaseDir()
	if err != nil {
		t.Fatalf("BaseDir() error = %v", err)
	}
	if want := filepath.Join(home, DirName); got != want {
		t.Errorf("BaseDir() = %q, want %q", got, want)
	}
}
