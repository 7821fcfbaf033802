package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/language"
)

// supported is indexed in step with catalog; the first entry is the fallback.
var supported = []language.Tag{language.English, language.Polish}

var matcher = language.NewMatcher(supported)

type messages struct {
	added         string // %s: card id
	updated       string // %s: card id
	invalid       string
	addFailed     string
	notRegistered string
	lookupFailed  string
	cardLine      string // %s: username, %s: card id
	help          string
	addCommand    string
	myCommand     string
	addDesc       string
	myDesc        string
}

var catalog = []messages{
	{
		added:         "Added %s to the database.",
		updated:       "Card updated to %s.",
		invalid:       "Invalid card ID.",
		addFailed:     "Couldn't add the card to the database.",
		notRegistered: "No card in database.",
		lookupFailed:  "Couldn't read your card from the database.",
		cardLine:      "%s - %s",
		help:          "/addcard <card id> adds your card to our database (16 hex characters, spaces are ignored).\n/mycard checks if your card is in our database.",
		addCommand:    "addcard",
		myCommand:     "mycard",
		addDesc:       "Adds a card to our database",
		myDesc:        "Checks if a card is in our database",
	},
	{
		added:         "Dodano kartę %s do bazy.",
		updated:       "Zaktualizowano kartę na %s.",
		invalid:       "Nieprawidłowe ID karty.",
		addFailed:     "Nie udało się dodać karty do bazy.",
		notRegistered: "Brak karty w bazie.",
		lookupFailed:  "Nie udało się odczytać karty z bazy.",
		cardLine:      "%s - %s",
		help:          "/dodaj_karte <ID karty> dodaje kartę do naszej bazy (16 znaków szesnastkowych, spacje są pomijane).\n/moja_karta sprawdza czy karta jest dodana do naszej bazy.",
		addCommand:    "dodaj_karte",
		myCommand:     "moja_karta",
		addDesc:       "Dodaje kartę do naszej bazy kart",
		myDesc:        "Sprawdza czy karta jest dodana do naszej bazy",
	},
}

// localize picks the catalog for a Telegram language code such as "pl" or "en-GB".
func localize(code string) messages {
	tag, err := language.Parse(code)
	if err != nil {
		return catalog[0]
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return catalog[0]
	}
	return catalog[idx]
}

func (m messages) commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: m.addCommand, Description: m.addDesc},
		{Command: m.myCommand, Description: m.myDesc},
	}
}

type action int

const (
	actionUnknown action = iota
	actionAdd
	actionMine
	actionHelp
)

// actionFor accepts the command names of every language, whatever the user's locale.
func actionFor(command string) action {
	switch command {
	case "start", "help":
		return actionHelp
	}
	for _, m := range catalog {
		switch command {
		case m.addCommand:
			return actionAdd
		case m.myCommand:
			return actionMine
		}
	}
	return actionUnknown
}
