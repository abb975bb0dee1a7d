package events

import "github.com/meshlens/meshlens/internal/event"

// KindConfigChanged is dispatched after the configuration file was
// reloaded. The payload carries the config path under FieldPath.
const KindConfigChanged event.Kind = "config:changed"

// FieldPath carries a filesystem path.
const FieldPath = "path"
