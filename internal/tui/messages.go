package tui

import "github.com/yungbote/sutra-starters/internal/chat"

// streamStartedMsg hands the model the channel a reply is streamed on.
type streamStartedMsg struct {
	ch <-chan any
}

type deltaMsg struct {
	text string
}

type replyDoneMsg struct {
	reply chat.Reply
}

type replyErrMsg struct {
	err error
}
