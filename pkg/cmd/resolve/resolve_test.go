package resolve

import (
	"bytes"
	"strings"
	"testing"

	"github.com/romci/cli/internal/config"
	"github.com/romci/cli/internal/errors"
	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func testFactory(fs afero.Fs) *factory.Factory {
	return &factory.Factory{
		Config: &config.Config{
			Device:   "zircon",
			Variant:  "userdebug",
			BotToken: "123:abc",
			ChatID:   "-100",
		},
		Fs:      fs,
		Logger:  logrus.New(),
		Version: "test",
	}
}

func TestResolveCommand(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	dir := "out/target/product/zircon"
	for name, content := range map[string]string{
		dir + "/rom-zircon-signed.zip": strings.Repeat("z", 100),
		dir + "/boot.img":              "boot",
		dir + "/vendor_boot.img":       "vendor",
		dir + "/dtbo.img":              "dtbo",
	} {
		if err := afero.WriteFile(fs, name, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	f := testFactory(fs)
	cmd := NewCmdResolve(f)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"rom-zircon-signed.zip", "initial install zip"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestResolveCommandMissingROM(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("out/target/product/zircon", 0o755); err != nil {
		t.Fatal(err)
	}

	f := testFactory(fs)
	cmd := NewCmdResolve(f)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if !errors.IsMissingArtifact(err) {
		t.Errorf("expected a missing artifact error, got %v", err)
	}
}
