package readme

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultHelpHref is linked from the not-found message.
const DefaultHelpHref = "/help/readme"

const msgNotFound = `None of the <em class="placeholder">%[1]s</em> files is found in the ` +
	`<em class="placeholder">%[2]s</em> folder or their content is empty. ` +
	`Please, <a href="%[3]s">README</a>.`

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	_ = b.SetString(language.English, msgNotFound, msgNotFound)
	_ = b.SetString(language.French, msgNotFound,
		`Aucun des fichiers <em class="placeholder">%[1]s</em> n'a été trouvé dans le dossier `+
			`<em class="placeholder">%[2]s</em> ou leur contenu est vide. `+
			`Veuillez consulter <a href="%[3]s">README</a>.`)
	_ = b.SetString(language.German, msgNotFound,
		`Keine der Dateien <em class="placeholder">%[1]s</em> wurde im Ordner `+
			`<em class="placeholder">%[2]s</em> gefunden oder ihr Inhalt ist leer. `+
			`Siehe <a href="%[3]s">README</a>.`)

	return b
}

// printer returns a message printer for lang, falling back to English for
// unknown or unsupported languages.
func (c *Converter) printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag, message.Catalog(c.catalog))
}
