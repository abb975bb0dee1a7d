package events

import (
	"github.com/meshlens/meshlens/internal/event"
	"github.com/meshlens/meshlens/internal/scene"
)

// Camera kinds. The viewport owns all camera math; these events only name
// the nodes the camera should frame.
const (
	// KindCameraReset asks the viewport to restore the default camera.
	KindCameraReset event.Kind = "camera:reset"

	// KindCameraFit asks the viewport to frame a set of nodes. An empty
	// list frames the whole model.
	KindCameraFit event.Kind = "camera:fit"
)

// CameraFit asks the viewport to frame nodes.
type CameraFit struct {
	NodeIDs []scene.NodeID
}

// Payload builds the dispatch payload.
func (e CameraFit) Payload() event.Payload {
	return event.Payload{FieldNodes: e.NodeIDs}
}

// CameraFitFrom parses a camera:fit payload.
func CameraFitFrom(p event.Payload) CameraFit {
	return CameraFit{NodeIDs: nodesOf(p, FieldNodes)}
}
