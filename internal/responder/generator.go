package responder

import "context"

type TurnRole string

const (
	TurnUser  TurnRole = "user"
	TurnModel TurnRole = "model"
)

// Turn is one entry of the conversation handed to the text generator.
type Turn struct {
	Role TurnRole
	Text string
}

// Generator is the remote text-generation capability: given a system
// instruction and an ordered list of turns it returns text, or fails.
type Generator interface {
	Generate(ctx context.Context, systemInstruction string, turns []Turn) (string, error)
}
