package responder

import (
	"fmt"
	"strings"

	"campus-chat/internal/chat"
	"campus-chat/internal/user"
)

const (
	openingRequest        = "Please provide the opening message."
	attachmentPlaceholder = "(file attached)"
)

func expertise(lecturer user.User) string {
	if len(lecturer.Expertise) == 0 {
		return "general topics"
	}
	parts := make([]string, len(lecturer.Expertise))
	for i, c := range lecturer.Expertise {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func replyInstruction(lecturer, student user.User, topic user.Category) string {
	return fmt.Sprintf("You are %s, a helpful and professional lecturer at Universitas Sriwijaya, specializing in %s. "+
		"You are chatting with a student named %s. The topic of this consultation is %q. "+
		"Keep your answers concise, supportive, and relevant to the student's questions. Always respond in Bahasa Indonesia.",
		lecturer.Name, expertise(lecturer), student.Name, string(topic))
}

func openingInstruction(lecturer, student user.User, topic user.Category) string {
	return fmt.Sprintf("You are %s, a helpful and professional lecturer at Universitas Sriwijaya, specializing in %s.\n"+
		"You are starting a new consultation chat with a student named %s about the topic %q.\n"+
		"Your task is to write a single, friendly, and welcoming opening message.\n"+
		"Invite the student to ask their question.\n"+
		"Keep it concise and respond in Bahasa Indonesia.",
		lecturer.Name, expertise(lecturer), student.Name, string(topic))
}

// history maps the chat log onto turns: the lecturer's own messages are the
// model side, everybody else speaks as the user.
func history(msgs []chat.Message, lecturerID string) []Turn {
	turns := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		role := TurnUser
		if m.SenderID == lecturerID {
			role = TurnModel
		}
		text := m.Text
		if text == "" {
			text = attachmentPlaceholder
		}
		turns = append(turns, Turn{Role: role, Text: text})
	}
	return turns
}

func openingFallback(lecturer, student user.User, topic user.Category) string {
	return fmt.Sprintf("Halo %s, saya %s. Selamat datang di sesi konsultasi topik \"%s\". Silakan ajukan pertanyaan Anda.",
		student.Name, lecturer.Name, string(topic))
}
