package letter

import (
	"fmt"

	"swissshield/pkg/domain"
)

// Language selects the template set of a letter.
type Language string

const (
	German Language = "de"
	French Language = "fr"
)

// LanguagePolicy decides which language a letter for a canton is written in.
type LanguagePolicy interface {
	Language(canton domain.Canton) Language
}

// Policy names accepted by NewLanguagePolicy.
const (
	PolicyGerman   = "german"
	PolicyByCanton = "by-canton"
)

// GermanOnly writes every letter in German so German-speaking offices accept it.
type GermanOnly struct{}

func (GermanOnly) Language(domain.Canton) Language { return German }

// ByCanton looks the canton up in a table and falls back to Default.
type ByCanton struct {
	Table   map[domain.Canton]Language
	Default Language
}

func (p ByCanton) Language(c domain.Canton) Language {
	if l, ok := p.Table[c]; ok {
		return l
	}
	if p.Default == "" {
		return German
	}
	return p.Default
}

// DefaultByCanton writes letters for the French-speaking cantons in French.
func DefaultByCanton() ByCanton {
	return ByCanton{
		Table: map[domain.Canton]Language{
			"GE": French,
			"VD": French,
			"NE": French,
			"JU": French,
		},
		Default: German,
	}
}

// NewLanguagePolicy builds a policy from its configuration name.
func NewLanguagePolicy(name string) (LanguagePolicy, error) {
	switch name {
	case PolicyGerman, "":
		return GermanOnly{}, nil
	case PolicyByCanton:
		return DefaultByCanton(), nil
	default:
		return nil, fmt.Errorf("unknown language policy %q", name)
	}
}

// phrases is the fixed text of one language.
type phrases struct {
	confessionLabel map[domain.Confession]string
	confessionFull  map[domain.Confession]string

	subject       string // label, full phrase
	datelineSep   string
	country       string
	dobLabel      string
	dobMissing    string
	nameLabel     string
	addressLabel  string
	confLabel     string
	body          []string // %s is the full confession phrase
	signature     string
	postscript    string
	payrollTo     []string
	payrollTitle  string
	payrollBody   []string
	payrollMarker string
}

var templates = map[Language]*phrases{
	German: {
		confessionLabel: map[domain.Confession]string{
			domain.ConfessionCatholic: "röm.-kath.",
			domain.ConfessionReformed: "ref.",
		},
		confessionFull: map[domain.Confession]string{
			domain.ConfessionCatholic: "römisch-katholischen Kirche",
			domain.ConfessionReformed: "evangelisch-reformierten Kirche",
		},
		subject:      "Kirchenaustritt (%s) / Austritt aus der %s",
		datelineSep:  ", ",
		country:      "Schweiz",
		nameLabel:    "Name: ",
		dobLabel:     "Geburtsdatum: ",
		dobMissing:   "[Geburtsdatum]",
		addressLabel: "Adresse: ",
		confLabel:    "Konfession: ",
		body: []string{
			"Sehr geehrte Damen und Herren,",
			"",
			"Hiermit erkläre ich meinen Austritt aus der %s",
			"per sofort ab Eingang dieses Schreibens.",
			"",
			"Bitte bestätigen Sie mir schriftlich den Erhalt dieses Schreibens",
			"sowie das Wirksamkeitsdatum meines Austritts.",
			"",
			"Falls eine Meldung an zuständige Stellen vorgesehen ist,",
			"bitte ich um entsprechende Veranlassung.",
			"",
			"Freundliche Grüsse,",
		},
		signature:  "(Unterschrift)",
		postscript: "P.S. Falls Sie nicht zuständig sind, bitte ich Sie, dieses Schreiben an die zuständige Stelle weiterzuleiten oder mir die korrekte Adresse mitzuteilen.",
		payrollTo: []string{
			"An die Personalabteilung / HR Department",
			"(Ihres Arbeitgebers)",
		},
		payrollTitle: "Anpassung Quellensteuertarif (Kirchenaustritt)",
		payrollBody: []string{
			"Sehr geehrte Damen und Herren,",
			"",
			"Ich habe per sofort meinen Austritt aus der Kirche erklärt.",
			"",
			"Bitte ändern Sie meinen Quellensteuertarif ab dem nächstmöglichen Zeitpunkt",
			`von Code "Y" (mit Kirchensteuer) auf Code "N" (ohne Kirchensteuer).`,
			"Beispiel: Tarif A0Y -> A0N.",
			"",
			"Eine Kopie meiner Austrittserklärung lege ich bei (oder reiche die Bestätigung",
			"nach, sobald ich diese von der Kirche erhalten habe).",
			"",
			"Vielen Dank für die Kenntnisnahme.",
			"",
			"Freundliche Grüsse,",
		},
		payrollMarker: "A0Y",
	},
	French: {
		confessionLabel: map[domain.Confession]string{
			domain.ConfessionCatholic: "cath. rom.",
			domain.ConfessionReformed: "réf.",
		},
		confessionFull: map[domain.Confession]string{
			domain.ConfessionCatholic: "l'Église catholique romaine",
			domain.ConfessionReformed: "l'Église évangélique réformée",
		},
		subject:      "Sortie d'Église (%s) / Démission de %s",
		datelineSep:  ", le ",
		country:      "Suisse",
		nameLabel:    "Nom : ",
		dobLabel:     "Date de naissance : ",
		dobMissing:   "[Date de naissance]",
		addressLabel: "Adresse : ",
		confLabel:    "Confession : ",
		body: []string{
			"Madame, Monsieur,",
			"",
			"Par la présente, je déclare ma sortie de %s",
			"avec effet immédiat dès réception de ce courrier.",
			"",
			"Je vous prie de me confirmer par écrit la réception de ce courrier",
			"ainsi que la date d'effet de ma sortie.",
			"",
			"Si une communication aux autorités compétentes est prévue,",
			"je vous remercie de bien vouloir y procéder.",
			"",
			"Meilleures salutations,",
		},
		signature:  "(Signature)",
		postscript: "P.S. Si vous n'êtes pas l'instance compétente, je vous prie de transmettre ce courrier au service concerné ou de me communiquer l'adresse correcte.",
		payrollTo: []string{
			"Au service du personnel / HR Department",
			"(de votre employeur)",
		},
		payrollTitle: "Adaptation du barème de l'impôt à la source (sortie d'Église)",
		payrollBody: []string{
			"Madame, Monsieur,",
			"",
			"J'ai déclaré ma sortie de l'Église avec effet immédiat.",
			"",
			"Je vous prie de modifier mon barème de l'impôt à la source dès que possible",
			"du code « Y » (avec impôt ecclésiastique) au code « N » (sans impôt ecclésiastique).",
			"Exemple : barème A0Y -> A0N.",
			"",
			"Je joins une copie de ma déclaration de sortie (ou transmettrai la confirmation",
			"dès que je l'aurai reçue de l'Église).",
			"",
			"Je vous remercie de votre attention.",
			"",
			"Meilleures salutations,",
		},
		payrollMarker: "A0Y",
	},
}

func phrasesFor(l Language) *phrases {
	if p, ok := templates[l]; ok {
		return p
	}
	return templates[German]
}
