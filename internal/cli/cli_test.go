package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/proaptus/tanklab/pkg/vessel"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"analyze":     false,
		"reliability": false,
		"designs":     false,
		"serve":       false,
		"completion":  false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestNewLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Info("ready")
	if match, _ := regexp.MatchString(`\d{2}:\d{2}:\d{2}\.\d{2}`, buf.String()); !match {
		t.Errorf("output should carry a timestamp, got %q", buf.String())
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug should be filtered at info level")
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug should pass at debug level")
	}
}

func writeTestDesign(t *testing.T) string {
	t.Helper()
	layers := make([]vessel.Layer, 12)
	for i := range layers {
		typ := vessel.LayerHelical
		angle := 15.0
		if i%3 == 2 {
			typ = vessel.LayerHoop
			angle = 89.0
		}
		layers[i] = vessel.Layer{Index: i + 1, Type: typ, AngleDeg: angle, ThicknessMM: 2}
	}
	d := vessel.Design{
		Name: "cli test vessel",
		Dimensions: vessel.Dimensions{
			InnerRadiusMM:    175,
			OuterRadiusMM:    200,
			CylinderLengthMM: 1000,
			TotalLengthMM:    1400,
			WallThicknessMM:  25,
		},
		Dome: vessel.Dome{
			ProfileType:     vessel.ProfileIsotensoid,
			WindingAngleDeg: vessel.NettingAngleDeg,
			BossBoreMM:      40,
			DepthMM:         400,
		},
		Layup:     vessel.Layup{Layers: layers, LinerThicknessMM: 1},
		Pressures: vessel.Pressures{ServiceBar: 300, TestBar: 472, BurstBar: 708},
	}
	path := filepath.Join(t.TempDir(), "design.json")
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadDesignFile(t *testing.T) {
	path := writeTestDesign(t)

	d, err := readDesignFile(path)
	if err != nil {
		t.Fatalf("readDesignFile: %v", err)
	}
	if d.Name != "cli test vessel" || d.LayerCount() != 12 {
		t.Errorf("loaded %+v", d)
	}
}

func TestReadDesignFileErrors(t *testing.T) {
	if _, err := readDesignFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("missing file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := readDesignFile(bad); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func TestDesignsValidateCommand(t *testing.T) {
	path := writeTestDesign(t)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"designs", "validate", path})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.Execute(); err != nil {
		t.Fatalf("designs validate: %v", err)
	}
}

func TestAnalyzeCommandWritesOutput(t *testing.T) {
	design := writeTestDesign(t)
	out := filepath.Join(t.TempDir(), "result.json")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"analyze", design, "-o", out, "--load-case", "burst"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.Execute(); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var res struct {
		LoadCase        string  `json:"load_case"`
		LoadPressureBar float64 `json:"load_pressure_bar"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if res.LoadCase != "burst" || res.LoadPressureBar != 708 {
		t.Errorf("output result = %+v", res)
	}
}

func TestAnalyzeCommandRejectsBadFlags(t *testing.T) {
	design := writeTestDesign(t)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"analyze", design, "--type", "torsion"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.Execute(); err == nil {
		t.Error("invalid stress type should fail")
	}
}
