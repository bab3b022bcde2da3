package consultation

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ibis1225/pet-ai/internal/shared/errors"
)

// channelPattern accepts names such as "kakao", "line" or "web_chat".
var channelPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,31}$`)

const maxChannelUserIDLen = 128

var registerOnce sync.Once

// RegisterValidators adds the "channel" tag to gin's binding validator.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = v.RegisterValidation("channel", func(fl validator.FieldLevel) bool {
			return channelPattern.MatchString(fl.Field().String())
		})
	})
	return err
}

// channelUserParams reads and checks the :channel and :channel_user_id path
// parameters.
func channelUserParams(c *gin.Context) (string, string, error) {
	channel := c.Param("channel")
	if !channelPattern.MatchString(channel) {
		return "", "", errors.NewValidationError("invalid channel", channel)
	}
	userID := c.Param("channel_user_id")
	if userID == "" || len(userID) > maxChannelUserIDLen {
		return "", "", errors.NewValidationError("invalid channel_user_id")
	}
	return channel, userID, nil
}
