package responder

import (
	"context"
	"fmt"
	"strings"
)

// Canned answers without any network call. It is meant for local runs and
// load tests where no model credentials are available.
type Canned struct{}

func NewCanned() *Canned {
	return &Canned{}
}

func (Canned) Generate(ctx context.Context, _ string, turns []Turn) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var last string
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == TurnUser {
			last = strings.TrimSpace(turns[i].Text)
			break
		}
	}
	if last == "" || last == openingRequest {
		return "Halo, silakan sampaikan pertanyaan Anda. Saya siap membantu.", nil
	}
	return fmt.Sprintf("Terima kasih, pesan Anda %q sudah saya terima. Saya akan membantu sebisa mungkin.", last), nil
}
