package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/meshlens/meshlens/internal/event/events"
	"github.com/meshlens/meshlens/internal/scene"
)

// loadManifest plays the model-loader role for headless runs: it
// announces the load, parses the manifest and reports the outcome the
// same way an interactive loader would, so every downstream consumer sees
// the normal lifecycle.
func (a *App) loadManifest(path string) error {
	modelID := manifestModelID(path)
	a.dispatcher.Dispatch(events.KindLoadStart,
		events.LoadStart{ModelID: modelID}.Payload())

	model, err := scene.LoadManifestFile(path)
	if err != nil {
		a.dispatcher.Dispatch(events.KindLoadError,
			events.LoadError{ModelID: modelID, Reason: err.Error()}.Payload())
		return fmt.Errorf("loading manifest %s: %w", path, err)
	}

	a.dispatcher.Dispatch(events.KindLoadSuccess,
		events.LoadSuccess{ModelID: model.ID, Root: model.Root}.Payload())
	return nil
}

// manifestModelID derives a provisional model id from the manifest path,
// used until the parsed manifest provides the real one.
func manifestModelID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
