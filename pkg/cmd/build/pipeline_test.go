package build

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/romci/cli/internal/config"
	"github.com/romci/cli/internal/shell/shelltest"
	"github.com/romci/cli/internal/telegram"
	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testTelegram(t *testing.T, fs afero.Fs) (*telegram.Client, *[]string) {
	t.Helper()

	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, strings.TrimPrefix(r.URL.Path, "/bot123:abc/"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7}}`))
	}))
	t.Cleanup(srv.Close)

	return telegram.New("123:abc", telegram.WithBaseURL(srv.URL), telegram.WithFs(fs)), &calls
}

func TestRunPipelineSuccess(t *testing.T) {
	fs := afero.NewMemMapFs()
	outDir := "out/target/product/zircon"
	if err := afero.WriteFile(fs, outDir+"/rom-zircon-signed.zip", []byte("zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := shelltest.New()
	runner.Outputs["rclone link"] = "https://drive.example.com/rom-zircon-signed.zip"

	tg, calls := testTelegram(t, fs)
	f := &factory.Factory{
		Config: &config.Config{
			Device:       "zircon",
			Variant:      "userdebug",
			BotToken:     "123:abc",
			ChatID:       "-100",
			RcloneRemote: "gdrive",
			RcloneFolder: "releases",
		},
		Fs:       fs,
		Runner:   runner,
		Logger:   quietLogger(),
		Telegram: tg,
		Quiet:    true,
	}

	err := runPipeline(context.Background(), f, pipelineOptions{Jobs: 4})
	if err != nil {
		t.Fatal(err)
	}

	if !runner.CalledWith("bash -c") {
		t.Errorf("expected the build script to run, got %v", runner.Calls())
	}
	if !runner.CalledWith("rclone copy " + outDir + "/rom-zircon-signed.zip gdrive:releases") {
		t.Errorf("expected the ROM to be uploaded, got %v", runner.Calls())
	}

	want := []string{"sendMessage", "editMessageText", "pinChatMessage"}
	for _, method := range want {
		found := false
		for _, c := range *calls {
			if c == method {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a %s call, got %v", method, *calls)
		}
	}
}

func TestRunPipelineBuildFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("out/target/product/zircon", 0o755); err != nil {
		t.Fatal(err)
	}

	// no ROM zip and no success marker: the run must fail and post the log
	runner := shelltest.New()

	tg, calls := testTelegram(t, fs)
	f := &factory.Factory{
		Config: &config.Config{
			Device:   "zircon",
			Variant:  "userdebug",
			BotToken: "123:abc",
			ChatID:   "-100",
		},
		Fs:       fs,
		Runner:   runner,
		Logger:   quietLogger(),
		Telegram: tg,
		Quiet:    true,
	}

	err := runPipeline(context.Background(), f, pipelineOptions{Jobs: 4})
	if err == nil {
		t.Fatal("expected the pipeline to fail without a ROM")
	}

	found := false
	for _, c := range *calls {
		if c == "sendDocument" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the build log to be posted, got %v", *calls)
	}
}
