package model

// FieldType identifies the input widget of a modal field.
type FieldType string

const (
	FieldText          FieldType = "text"
	FieldSelect        FieldType = "select"
	FieldChannelSelect FieldType = "channel_select"
)

// ModalField is one input block inside a modal.
type ModalField struct {
	BlockID     string
	Label       string
	Type        FieldType
	Placeholder string
	// Options populates FieldSelect widgets.
	Options   []string
	Optional  bool
	Multiline bool
}

// ModalDefinition describes a modal view. The CallbackID is the
// correlation identifier: Slack round-trips it on submission so the
// submit is routed back to the workflow step that created the view, and
// PrivateMetadata carries earlier answers through multi-step flows.
// Nothing is stored server-side.
type ModalDefinition struct {
	Title           string
	CallbackID      string
	PrivateMetadata string
	SubmitLabel     string
	Fields          []ModalField
}
