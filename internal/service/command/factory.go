package command

import (
	"github.com/sandevgo/recall/internal/core"
)

func NewCommands(
	trainer core.Trainer,
	questions core.QuestionRepository,
) []core.Command {
	cmds := []core.Command{
		NewStartCommand(trainer),
		NewQuestionCommand(trainer),
		NewSkipCommand(trainer),
		NewResetCommand(trainer),
		NewProgressCommand(trainer, questions),
	}
	return append(cmds, NewHelpCommand(cmds))
}
