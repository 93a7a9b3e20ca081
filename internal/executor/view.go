package executor

import (
	"github.com/slack-go/slack"

	"slack_helper/internal/model"
)

// RenderModal translates a ModalDefinition into the Block Kit view
// request Slack expects. Each field becomes one input block whose
// element action ID equals the block ID, so view state flattens cleanly
// on submission.
func RenderModal(def model.ModalDefinition) slack.ModalViewRequest {
	blocks := make([]slack.Block, 0, len(def.Fields))
	for _, field := range def.Fields {
		blocks = append(blocks, inputBlock(field))
	}

	submit := def.SubmitLabel
	if submit == "" {
		submit = "Submit"
	}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		Title:           slack.NewTextBlockObject(slack.PlainTextType, def.Title, false, false),
		Submit:          slack.NewTextBlockObject(slack.PlainTextType, submit, false, false),
		Close:           slack.NewTextBlockObject(slack.PlainTextType, "Cancel", false, false),
		CallbackID:      def.CallbackID,
		PrivateMetadata: def.PrivateMetadata,
		Blocks:          slack.Blocks{BlockSet: blocks},
	}
}

func inputBlock(field model.ModalField) *slack.InputBlock {
	var placeholder *slack.TextBlockObject
	if field.Placeholder != "" {
		placeholder = slack.NewTextBlockObject(slack.PlainTextType, field.Placeholder, false, false)
	}

	var element slack.BlockElement
	switch field.Type {
	case model.FieldSelect:
		options := make([]*slack.OptionBlockObject, 0, len(field.Options))
		for _, opt := range field.Options {
			options = append(options, slack.NewOptionBlockObject(opt,
				slack.NewTextBlockObject(slack.PlainTextType, opt, false, false), nil))
		}
		element = slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, placeholder, field.BlockID, options...)
	case model.FieldChannelSelect:
		element = slack.NewOptionsSelectBlockElement(slack.OptTypeConversations, placeholder, field.BlockID)
	default:
		input := slack.NewPlainTextInputBlockElement(placeholder, field.BlockID)
		input.Multiline = field.Multiline
		element = input
	}

	label := slack.NewTextBlockObject(slack.PlainTextType, field.Label, false, false)
	block := slack.NewInputBlock(field.BlockID, label, nil, element)
	block.Optional = field.Optional
	return block
}

// messageBlocks renders a message with buttons as a section block plus
// one action block.
func messageBlocks(a model.OutboundAction) []slack.Block {
	section := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, a.Text, false, false), nil, nil)

	elements := make([]slack.BlockElement, 0, len(a.Buttons))
	for _, button := range a.Buttons {
		elements = append(elements, slack.NewButtonBlockElement(button.ActionID, button.Value,
			slack.NewTextBlockObject(slack.PlainTextType, button.Label, false, false)))
	}

	return []slack.Block{section, slack.NewActionBlock("", elements...)}
}
