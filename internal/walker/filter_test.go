package walker

import "testing"

func TestFilter_ShouldProcessFile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{name: "empty pattern allows all", pattern: "", path: "/saves/anything.bin", want: true},
		{name: "binary save", pattern: "*.sav", path: "/saves/WorldSave_Facility.sav", want: true},
		{name: "json is not a binary save", pattern: "*.sav", path: "/saves/WorldSave_Facility.sav.json", want: false},
		{name: "json save", pattern: "*.sav.json", path: "/saves/WorldSave_Facility.sav.json", want: true},
		{name: "plain json is not a save", pattern: "*.sav.json", path: "/saves/settings.json", want: false},
		{name: "case insensitive", pattern: "*.sav", path: "/saves/PLAYER.SAV", want: true},
		{name: "exact name", pattern: "Player_0.sav", path: "/saves/Player_0.sav", want: true},
		{name: "character class", pattern: "Player_[0-9].sav", path: "/saves/Player_7.sav", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.pattern, false)
			if err != nil {
				t.Fatalf("NewFilter() error = %v", err)
			}
			if got := f.ShouldProcessFile(tt.path); got != tt.want {
				t.Errorf("ShouldProcessFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFilter_ShouldProcessDir(t *testing.T) {
	flat, _ := NewFilter("*.sav", false)
	if flat.ShouldProcessDir("/saves/PlayerData") {
		t.Error("non-recursive filter should not descend")
	}

	tree, _ := NewFilter("*.sav", true)
	if !tree.ShouldProcessDir("/saves/PlayerData") {
		t.Error("recursive filter should descend into subdirectories")
	}
	if !tree.ShouldProcessDir("/home/user/.local/share/Steam") {
		t.Error("recursive filter should descend into dot directories")
	}
}

func TestNewFilter_InvalidPattern(t *testing.T) {
	if _, err := NewFilter("[", false); err == nil {
		t.Error("expected error for malformed pattern")
	}
}
