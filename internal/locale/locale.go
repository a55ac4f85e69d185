// Package locale holds the user-facing strings of phototransfer.
package locale

import (
	"strings"

	"github.com/tonimelisma/phototransfer/internal/organizer"
)

type Code string

const (
	English Code = "en"
	French  Code = "fr"
	Spanish Code = "es"
	German  Code = "de"

	Default = English
)

// Messages are fmt templates; the verbs each one expects are noted.
type Messages struct {
	Scanning string
	Found    string // %d photos
	Progress string // %d done, %d total
	// Done, DoneWithDuplicates and DoneWithErrors summarize a run.
	Done               string // %d processed
	DoneWithDuplicates string // %d processed, %d duplicates
	DoneWithErrors     string // %d processed, %d duplicates, %d errors
	Destination        string // %s path
	DryRun             string

	MissingFolders string
	SourceNotFound string
	NoPhotos       string
	RunInProgress  string
}

type translation struct {
	name     string
	months   organizer.MonthNames
	unknown  string
	messages Messages
}

var translations = map[Code]translation{
	English: {
		name: "English",
		months: organizer.MonthNames{"", "January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"},
		unknown: "Unknown",
		messages: Messages{
			Scanning:           "Searching for photos...",
			Found:              "%d photos found, processing...",
			Progress:           "Processing... %d/%d photos",
			Done:               "Done! %d photos organized successfully",
			DoneWithDuplicates: "Done! %d new photos, %d duplicates skipped",
			DoneWithErrors:     "Done! %d photos processed, %d duplicates skipped, %d errors",
			Destination:        "Your photos are in: %s",
			DryRun:             "Dry run: no files were changed",
			MissingFolders:     "Please select both source and destination folders",
			SourceNotFound:     "The source folder does not exist",
			NoPhotos:           "No photos found in the source folder",
			RunInProgress:      "An organization run is already in progress",
		},
	},
	French: {
		name: "Français",
		months: organizer.MonthNames{"", "Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
			"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre"},
		unknown: "Inconnu",
		messages: Messages{
			Scanning:           "Recherche des photos...",
			Found:              "%d photos trouvées - Traitement en cours...",
			Progress:           "Traitement... %d/%d photos",
			Done:               "Terminé ! %d photos organisées avec succès",
			DoneWithDuplicates: "Terminé ! %d nouvelles photos, %d doublons ignorés",
			DoneWithErrors:     "Terminé ! %d photos traitées, %d doublons ignorés, %d erreurs",
			Destination:        "Vos photos sont dans : %s",
			DryRun:             "Simulation : aucun fichier n'a été modifié",
			MissingFolders:     "Veuillez sélectionner les dossiers source et destination",
			SourceNotFound:     "Le dossier source n'existe pas",
			NoPhotos:           "Aucune photo trouvée dans le dossier source",
			RunInProgress:      "Une organisation est déjà en cours",
		},
	},
	Spanish: {
		name: "Español",
		months: organizer.MonthNames{"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
			"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"},
		unknown: "Desconocido",
		messages: Messages{
			Scanning:           "Buscando fotos...",
			Found:              "%d fotos encontradas, procesando...",
			Progress:           "Procesando... %d/%d fotos",
			Done:               "¡Listo! %d fotos organizadas correctamente",
			DoneWithDuplicates: "¡Listo! %d fotos nuevas, %d duplicados omitidos",
			DoneWithErrors:     "¡Listo! %d fotos procesadas, %d duplicados omitidos, %d errores",
			Destination:        "Sus fotos están en: %s",
			DryRun:             "Simulación: no se modificó ningún archivo",
			MissingFolders:     "Seleccione las carpetas de origen y destino",
			SourceNotFound:     "La carpeta de origen no existe",
			NoPhotos:           "No se encontraron fotos en la carpeta de origen",
			RunInProgress:      "Ya hay una organización en curso",
		},
	},
	German: {
		name: "Deutsch",
		months: organizer.MonthNames{"", "Januar", "Februar", "März", "April", "Mai", "Juni",
			"Juli", "August", "September", "Oktober", "November", "Dezember"},
		unknown: "Unbekannt",
		messages: Messages{
			Scanning:           "Suche nach Fotos...",
			Found:              "%d Fotos gefunden, Verarbeitung läuft...",
			Progress:           "Verarbeitung... %d/%d Fotos",
			Done:               "Fertig! %d Fotos erfolgreich sortiert",
			DoneWithDuplicates: "Fertig! %d neue Fotos, %d Duplikate übersprungen",
			DoneWithErrors:     "Fertig! %d Fotos verarbeitet, %d Duplikate übersprungen, %d Fehler",
			Destination:        "Ihre Fotos befinden sich in: %s",
			DryRun:             "Probelauf: keine Dateien wurden verändert",
			MissingFolders:     "Bitte Quell- und Zielordner auswählen",
			SourceNotFound:     "Der Quellordner existiert nicht",
			NoPhotos:           "Keine Fotos im Quellordner gefunden",
			RunInProgress:      "Es läuft bereits eine Sortierung",
		},
	},
}

// Parse normalizes s ("FR", "fr_FR.UTF-8", ...) to a supported code.
func Parse(s string) (Code, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "_-."); i >= 0 {
		s = s[:i]
	}
	if _, ok := translations[Code(s)]; !ok {
		return "", false
	}
	return Code(s), true
}

// Supported lists the language codes in a stable order.
func Supported() []Code {
	return []Code{English, French, Spanish, German}
}

func lookup(c Code) translation {
	if t, ok := translations[c]; ok {
		return t
	}
	return translations[Default]
}

// Name is the language's own name for itself.
func Name(c Code) string { return lookup(c).name }

// Months returns the month folder names for c, falling back to English.
func Months(c Code) organizer.MonthNames { return lookup(c).months }

// Unknown is the folder used when a month cannot be named.
func Unknown(c Code) string { return lookup(c).unknown }

func For(c Code) Messages { return lookup(c).messages }
