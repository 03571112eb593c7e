package game

import (
	"fmt"
	"strings"

	"mindbridge/internal/catalog"
)

// feedback returns the message shown after an answer and the learning tip
// appended to it in practice mode.
func feedback(t catalog.GameType, p catalog.Prompt, choice string, correct bool, mode Mode) (string, string) {
	var msg, tip string
	switch t {
	case catalog.ColorShape:
		if correct {
			msg = fmt.Sprintf("Great job! This is a %s! %s", p.Name, p.Description)
		} else {
			msg = fmt.Sprintf("Let's try again! This is a %s. %s", p.Name, p.Description)
		}
		if len(p.Examples) > 0 {
			tip = p.Examples[0]
			if mode == Practice {
				if correct {
					msg += fmt.Sprintf(" You can find %ss in everyday objects like a %s!", p.Name, tip)
				} else {
					msg += fmt.Sprintf(" Look for %ss in everyday objects like a %s.", p.Name, tip)
				}
			}
		}
	case catalog.Objects:
		if correct {
			msg = fmt.Sprintf("Great job! %s is %s! %s", p.Name, choice, p.Description)
		} else {
			msg = fmt.Sprintf("Let's try again! %s is actually %s. %s", p.Name, p.Category, p.Description)
		}
		if len(p.Examples) > 0 {
			tip = p.Examples[0]
			if mode == Practice {
				if correct {
					msg += fmt.Sprintf(" Remember: %s!", tip)
				} else {
					msg += fmt.Sprintf(" Safety tip: %s.", tip)
				}
			}
		}
	case catalog.Speech:
		if correct {
			msg = fmt.Sprintf("Great job! This is a %s! %s", p.Name, p.Description)
		} else {
			msg = fmt.Sprintf("Let's try again! This is a %s. %s", p.Name, p.Description)
		}
		if len(p.Examples) > 0 {
			tip = strings.Join(p.Examples, ", then ")
			if mode == Practice {
				msg += fmt.Sprintf(" Try it: %s.", tip)
			}
		}
	default:
		if correct {
			msg = fmt.Sprintf("Correct! %s = %s", p.Name, p.Answer)
		} else {
			msg = fmt.Sprintf("Not quite. %s = %s", p.Name, p.Answer)
		}
	}
	return msg, tip
}
