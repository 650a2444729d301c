package ggdoc

import (
	"sync/atomic"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Display names of history entries. Keys are the English format strings.
const (
	NameImportLayers = "Import %d Layers"
	NameResizeImage  = "Resize Image to %d × %d"
	NameCanvasSize   = "Canvas Size %d × %d"
	NameMoveLayer    = "Move Layer %d"
)

var printer atomic.Pointer[message.Printer]

func init() {
	_ = message.SetString(language.German, NameImportLayers, "%d Ebenen importieren")
	_ = message.SetString(language.German, NameResizeImage, "Bildgröße auf %d × %d ändern")
	_ = message.SetString(language.German, NameCanvasSize, "Arbeitsfläche %d × %d")
	_ = message.SetString(language.German, NameMoveLayer, "Ebene %d verschieben")
	printer.Store(message.NewPrinter(language.English))
}

// SetLanguage selects the language of formatted history names.
func SetLanguage(tag language.Tag) {
	printer.Store(message.NewPrinter(tag))
}

// FormatName formats a history entry name in the current language. Numbers
// get locale digit grouping.
func FormatName(key string, args ...any) string {
	return printer.Load().Sprintf(key, args...)
}
