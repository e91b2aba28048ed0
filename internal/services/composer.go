package services

import (
	"fmt"
	"strings"

	"github.com/tbourn/go-kudos-backend/internal/config"
	"github.com/tbourn/go-kudos-backend/internal/domain"
)

const (
	privateMarker = "_Sent privately_ :shushing_face:"

	primaryFormat = ":tada: Congrats <@%s>!! You just received an nKudo from <@%s> \n\n" +
		">*nKudo value*: %s \n" +
		">*message*: %s \n\n "

	anonymousFormat = ":tada: Yay!! Somebody just received nKudos for being awesome in the following category: %s"
)

// Messages is the text derived from one recognition.
//
// Primary always carries the full detail (sender, receiver, category, body).
// Secondary is set only for private recognitions composed with visibility
// enabled; it is the anonymous announcement safe for a shared channel.
type Messages struct {
	Primary   string
	Secondary string
	Category  domain.Category
}

// Public returns the message that may be posted to a shared channel.
func (m Messages) Public() string {
	if m.Secondary != "" {
		return m.Secondary
	}
	return m.Primary
}

// Composer derives notification text. Mode is config.VisibilityWith or
// config.VisibilityWithout; any other value behaves like VisibilityWith.
type Composer struct {
	Mode string
}

// Compose renders the recognition text. It is pure: equal arguments always
// produce equal messages.
func (c Composer) Compose(sender, receiver, kudoValue, body string, private bool) (Messages, error) {
	if strings.TrimSpace(sender) == "" || strings.TrimSpace(receiver) == "" {
		return Messages{}, fmt.Errorf("%w: sender and receiver are required", ErrComposition)
	}
	cat, err := domain.ParseCategory(kudoValue)
	if err != nil {
		return Messages{}, fmt.Errorf("%w: %w", ErrComposition, err)
	}

	label := cat.Label()
	primary := fmt.Sprintf(primaryFormat, receiver, sender, label, body)

	if c.Mode == config.VisibilityWithout || !private {
		return Messages{Primary: primary, Category: cat}, nil
	}
	return Messages{
		Primary:   primary + privateMarker,
		Secondary: fmt.Sprintf(anonymousFormat, label),
		Category:  cat,
	}, nil
}
