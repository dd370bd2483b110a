package warps

import (
	"sync"

	"github.com/samber/oops"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message identifies a notification sent to an actor.
type Message int

const (
	// MessageWarmupStarted takes the warp name and the warmup in seconds.
	MessageWarmupStarted Message = iota
	// MessageWarmupRunning takes the remaining seconds.
	MessageWarmupRunning
	// MessageCooldownRunning takes the remaining seconds.
	MessageCooldownRunning
	MessageWarmupCancelledMove
	MessageWarmupCancelledDamage
	MessageCooldownEnded
	// MessageInsufficientFunds takes the warp name.
	MessageInsufficientFunds
	// MessageUnsafeLocation takes the warp name.
	MessageUnsafeLocation
	// MessageWelcome takes the warp's welcome message.
	MessageWelcome
	// MessageWorldMissing takes the warp name.
	MessageWorldMissing
	// MessageTeleportFailed takes the warp name.
	MessageTeleportFailed

	messageCount
)

// String returns the catalog key of the message.
func (m Message) String() string {
	switch m {
	case MessageWarmupStarted:
		return "warmup.started"
	case MessageWarmupRunning:
		return "warmup.running"
	case MessageCooldownRunning:
		return "cooldown.running"
	case MessageWarmupCancelledMove:
		return "warmup.cancelled.move"
	case MessageWarmupCancelledDamage:
		return "warmup.cancelled.damage"
	case MessageCooldownEnded:
		return "cooldown.ended"
	case MessageInsufficientFunds:
		return "economy.insufficient-funds"
	case MessageUnsafeLocation:
		return "teleport.unsafe-location"
	case MessageWelcome:
		return "teleport.welcome"
	case MessageWorldMissing:
		return "teleport.world-missing"
	case MessageTeleportFailed:
		return "teleport.failed"
	default:
		return "unknown"
	}
}

// Notifier delivers messages to actors. Formatting and translation are up to the
// implementation; the locale is passed explicitly with every call.
type Notifier interface {
	Notify(a Actor, locale language.Tag, msg Message, args ...any)
}

// NotifierFunc adapts an ordinary function to a Notifier.
type NotifierFunc func(a Actor, locale language.Tag, msg Message, args ...any)

// Notify calls f.
func (f NotifierFunc) Notify(a Actor, locale language.Tag, msg Message, args ...any) {
	f(a, locale, msg, args...)
}

// notify sends msg in the actor's own locale. A nil notifier drops the message.
func notify(n Notifier, a Actor, msg Message, args ...any) {
	if n == nil {
		return
	}
	n.Notify(a, a.Locale(), msg, args...)
}

var englishTemplates = [messageCount]string{
	MessageWarmupStarted:         "You will be teleported to %s in %d seconds. Don't move.",
	MessageWarmupRunning:         "You are already warming up. %d seconds left.",
	MessageCooldownRunning:       "You need to wait %d more seconds before you can teleport again.",
	MessageWarmupCancelledMove:   "Teleport cancelled because you moved.",
	MessageWarmupCancelledDamage: "Teleport cancelled because you took damage.",
	MessageCooldownEnded:         "You can teleport again.",
	MessageInsufficientFunds:     "You cannot afford to use %s.",
	MessageUnsafeLocation:        "The location of %s is unsafe.",
	MessageWelcome:               "%s",
	MessageWorldMissing:          "The world of %s is not loaded.",
	MessageTeleportFailed:        "Could not teleport you to %s.",
}

// PrinterNotifier formats messages from a catalog and sends them with
// Actor.SendMessage. Locales without a translation fall back to English, as do
// single messages a translation leaves out.
type PrinterNotifier struct {
	catalog *catalog.Builder

	mu       sync.Mutex
	english  [messageCount]string
	own      map[language.Tag]map[Message]bool // messages a locale translates itself
	printers map[language.Tag]*message.Printer
}

// NewPrinterNotifier creates a notifier holding the English templates.
func NewPrinterNotifier() *PrinterNotifier {
	n := &PrinterNotifier{
		catalog:  catalog.NewBuilder(catalog.Fallback(language.English)),
		english:  englishTemplates,
		own:      make(map[language.Tag]map[Message]bool),
		printers: make(map[language.Tag]*message.Printer),
	}
	for m := Message(0); m < messageCount; m++ {
		n.mustSet(language.English, m, englishTemplates[m])
	}
	return n
}

// mustSet stores a template already known to compile.
func (n *PrinterNotifier) mustSet(locale language.Tag, msg Message, template string) {
	if err := n.catalog.SetString(locale, msg.String(), template); err != nil {
		panic(oops.In("notify").
			Code("INVALID_TEMPLATE").
			With("message", msg.String()).
			With("locale", locale.String()).
			Wrap(err))
	}
}

// SetTemplate adds or replaces the template of msg for a locale.
// Templates use fmt verbs, the arguments are those documented on Message.
func (n *PrinterNotifier) SetTemplate(locale language.Tag, msg Message, template string) error {
	if msg < 0 || msg >= messageCount {
		return oops.In("notify").Code("UNKNOWN_MESSAGE").Errorf("unknown message %d", int(msg))
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.catalog.SetString(locale, msg.String(), template); err != nil {
		return oops.In("notify").With("message", msg.String()).Wrap(err)
	}

	if locale == language.English {
		n.english[msg] = template
		for tag, own := range n.own {
			if !own[msg] {
				n.mustSet(tag, msg, template)
			}
		}
	} else {
		own, ok := n.own[locale]
		if !ok {
			// The catalog never falls back per message, so a new locale starts
			// as a copy of English.
			own = make(map[Message]bool)
			n.own[locale] = own
			for m := Message(0); m < messageCount; m++ {
				if m != msg {
					n.mustSet(locale, m, n.english[m])
				}
			}
		}
		own[msg] = true
	}

	// Printers match locales once, drop them so the new template is picked up.
	clear(n.printers)
	return nil
}

// Format returns the text of msg in the given locale.
func (n *PrinterNotifier) Format(locale language.Tag, msg Message, args ...any) string {
	return n.printer(locale).Sprintf(msg.String(), args...)
}

// Notify implements Notifier.
func (n *PrinterNotifier) Notify(a Actor, locale language.Tag, msg Message, args ...any) {
	a.SendMessage(n.Format(locale, msg, args...))
}

func (n *PrinterNotifier) printer(locale language.Tag) *message.Printer {
	n.mu.Lock()
	defer n.mu.Unlock()
	p, ok := n.printers[locale]
	if !ok {
		// Lookups only walk parent tags, other locales are matched against
		// the catalog first. English leads the list as the default.
		tags := append([]language.Tag{language.English}, n.catalog.Languages()...)
		_, i, _ := language.NewMatcher(tags).Match(locale)
		p = message.NewPrinter(tags[i], message.Catalog(n.catalog))
		n.printers[locale] = p
	}
	return p
}
