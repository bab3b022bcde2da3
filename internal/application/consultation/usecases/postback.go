package usecases

import (
	"net/url"

	"github.com/ibis1225/pet-ai/internal/shared/errors"
)

const postbackAction = "consultation"

type PostbackData struct {
	Step  string
	Value string
}

// ParsePostbackData decodes a LINE-style postback payload such as
// "action=consultation&step=urgency&value=urgent".
func ParsePostbackData(data string) (PostbackData, error) {
	values, err := url.ParseQuery(data)
	if err != nil {
		return PostbackData{}, errors.NewValidationError("malformed postback data")
	}
	if values.Get("action") != postbackAction {
		return PostbackData{}, errors.NewValidationError("unsupported postback action", values.Get("action"))
	}

	p := PostbackData{
		Step:  values.Get("step"),
		Value: values.Get("value"),
	}
	if p.Step == "" {
		return PostbackData{}, errors.NewValidationError("postback step is required")
	}
	return p, nil
}
