package template

import "github.com/upb/review-generator/models"

type ratingBand int

const (
	bandLow ratingBand = iota
	bandMid
	bandHigh
)

func bandFor(rating int) ratingBand {
	switch {
	case rating >= 4:
		return bandHigh
	case rating == 3:
		return bandMid
	default:
		return bandLow
	}
}

// vocabulary holds the sentence tables for one language.
// Every highlight phrase contains the highlight's keyword.
type vocabulary struct {
	openings   map[ratingBand][]string // %s is the hotel name
	highlights map[models.Highlight][]string
	keywords   map[models.Highlight]string
	staff      []string // %s is the staff name
	comment    string   // %s is the guest comment
	rating     string   // %d is the rating
	closings   []string
}

var vocabularies = map[models.Language]*vocabulary{
	models.LanguageEnglish:    english,
	models.LanguageSpanish:    spanish,
	models.LanguageFrench:     french,
	models.LanguageGerman:     german,
	models.LanguagePortuguese: portuguese,
	models.LanguageItalian:    italian,
}

func vocabularyFor(lang models.Language) *vocabulary {
	if v, ok := vocabularies[lang]; ok {
		return v
	}
	return english
}

var english = &vocabulary{
	openings: map[ratingBand][]string{
		bandHigh: {
			"I had a wonderful stay at %s and would happily come back.",
			"My time at %s was excellent from check-in to check-out.",
		},
		bandMid: {
			"My stay at %s was pleasant overall, with a few things to improve.",
			"%s offered a decent stay with some real strengths.",
		},
		bandLow: {
			"My stay at %s did not fully meet my expectations.",
			"I expected more from my stay at %s, although some things went well.",
		},
	},
	highlights: map[models.Highlight][]string{
		models.HighlightCleanliness: {"The room and common areas were spotlessly clean.", "Everything was clean and well kept."},
		models.HighlightStaff:       {"The staff were friendly and attentive throughout.", "The staff went out of their way to help."},
		models.HighlightLocation:    {"The location is perfect for exploring the area.", "The location made it easy to get around."},
		models.HighlightBreakfast:   {"Breakfast was varied and fresh every morning.", "The breakfast was a great way to start the day."},
		models.HighlightRoom:        {"Our room was spacious and well equipped.", "The room had everything we needed."},
		models.HighlightComfort:     {"The beds offered real comfort and a good night's sleep.", "Comfort was excellent throughout the stay."},
		models.HighlightValue:       {"It was very good value for the price.", "The stay offered great value for money."},
		models.HighlightView:        {"The view from the room was beautiful.", "We enjoyed a lovely view every day."},
		models.HighlightPool:        {"The pool was clean and a pleasure to relax by.", "We loved spending afternoons at the pool."},
		models.HighlightSpa:         {"The spa was relaxing and well run.", "A visit to the spa was a highlight of the trip."},
		models.HighlightRestaurant:  {"The restaurant served delicious meals.", "Dinner at the restaurant was a treat."},
		models.HighlightWifi:        {"The Wi-Fi was fast and reliable.", "Wi-Fi worked well everywhere in the hotel."},
		models.HighlightQuiet:       {"The hotel was quiet, so we slept very well.", "It was a quiet place to rest after long days."},
		models.HighlightParking:     {"Parking was easy and convenient.", "Having parking on site made arrival simple."},
	},
	keywords: map[models.Highlight]string{
		models.HighlightCleanliness: "clean",
		models.HighlightStaff:       "staff",
		models.HighlightLocation:    "location",
		models.HighlightBreakfast:   "breakfast",
		models.HighlightRoom:        "room",
		models.HighlightComfort:     "comfort",
		models.HighlightValue:       "value",
		models.HighlightView:        "view",
		models.HighlightPool:        "pool",
		models.HighlightSpa:         "spa",
		models.HighlightRestaurant:  "restaurant",
		models.HighlightWifi:        "wi-fi",
		models.HighlightQuiet:       "quiet",
		models.HighlightParking:     "parking",
	},
	staff: []string{
		"A special thank you to %s for making us feel welcome.",
		"%s deserves a mention for the excellent service.",
	},
	comment: "In my own words: %s",
	rating:  "Overall I would rate my stay %d out of 5.",
	closings: []string{
		"Thank you to everyone at the hotel for having us.",
		"I hope this review helps other travellers plan their trip.",
		"This review reflects my personal experience during the stay.",
		"I would recommend checking it out when visiting the area.",
		"Looking forward to seeing how the hotel keeps improving.",
	},
}

var spanish = &vocabulary{
	openings: map[ratingBand][]string{
		bandHigh: {
			"Tuve una estancia maravillosa en %s y volvería sin dudarlo.",
			"Mi experiencia en %s fue excelente de principio a fin.",
		},
		bandMid: {"Mi estancia en %s fue agradable en general, con algunos aspectos a mejorar."},
		bandLow: {"Mi estancia en %s no cumplió del todo mis expectativas."},
	},
	highlights: map[models.Highlight][]string{
		models.HighlightCleanliness: {"La limpieza de la habitación y las zonas comunes fue impecable."},
		models.HighlightStaff:       {"El personal fue amable y atento en todo momento."},
		models.HighlightLocation:    {"La ubicación es perfecta para recorrer la zona."},
		models.HighlightBreakfast:   {"El desayuno era variado y fresco cada mañana."},
		models.HighlightRoom:        {"La habitación era amplia y estaba bien equipada."},
		models.HighlightComfort:     {"La comodidad de las camas nos permitió descansar muy bien."},
		models.HighlightValue:       {"La relación calidad-precio fue muy buena."},
		models.HighlightView:        {"Las vistas desde la habitación eran preciosas."},
		models.HighlightPool:        {"La piscina estaba limpia y era ideal para relajarse."},
		models.HighlightSpa:         {"El spa era relajante y estaba muy bien cuidado."},
		models.HighlightRestaurant:  {"El restaurante ofrecía platos deliciosos."},
		models.HighlightWifi:        {"El wifi era rápido y fiable."},
		models.HighlightQuiet:       {"El hotel era muy tranquilo y dormimos de maravilla."},
		models.HighlightParking:     {"El aparcamiento fue fácil y cómodo."},
	},
	keywords: map[models.Highlight]string{
		models.HighlightCleanliness: "limpieza",
		models.HighlightStaff:       "personal",
		models.HighlightLocation:    "ubicación",
		models.HighlightBreakfast:   "desayuno",
		models.HighlightRoom:        "habitación",
		models.HighlightComfort:     "comodidad",
		models.HighlightValue:       "calidad-precio",
		models.HighlightView:        "vistas",
		models.HighlightPool:        "piscina",
		models.HighlightSpa:         "spa",
		models.HighlightRestaurant:  "restaurante",
		models.HighlightWifi:        "wifi",
		models.HighlightQuiet:       "tranquilo",
		models.HighlightParking:     "aparcamiento",
	},
	staff:   []string{"Un agradecimiento especial a %s por hacernos sentir como en casa."},
	comment: "En mis propias palabras: %s",
	rating:  "En general, valoro mi estancia con un %d de 5.",
	closings: []string{
		"Gracias a todo el equipo del hotel por la atención.",
		"Espero que esta reseña ayude a otros viajeros a decidir.",
		"Esta opinión refleja mi experiencia personal durante la estancia.",
		"Lo recomendaría a quien visite la zona.",
		"Espero ver cómo el hotel sigue mejorando en el futuro.",
	},
}

var french = &vocabulary{
	openings: map[ratingBand][]string{
		bandHigh: {"J'ai passé un séjour merveilleux à %s et j'y reviendrai avec plaisir."},
		bandMid:  {"Mon séjour à %s a été agréable dans l'ensemble, avec quelques points à améliorer."},
		bandLow:  {"Mon séjour à %s n'a pas tout à fait répondu à mes attentes."},
	},
	highlights: map[models.Highlight][]string{
		models.HighlightCleanliness: {"La propreté de la chambre et des espaces communs était irréprochable."},
		models.HighlightStaff:       {"Le personnel a été aimable et attentionné."},
		models.HighlightLocation:    {"L'emplacement est idéal pour découvrir les environs."},
		models.HighlightBreakfast:   {"Le petit-déjeuner était varié et frais chaque matin."},
		models.HighlightRoom:        {"La chambre était spacieuse et bien équipée."},
		models.HighlightComfort:     {"Le confort de la literie nous a permis de bien dormir."},
		models.HighlightValue:       {"Le rapport qualité-prix était excellent."},
		models.HighlightView:        {"La vue depuis la chambre était magnifique."},
		models.HighlightPool:        {"La piscine était propre et agréable pour se détendre."},
		models.HighlightSpa:         {"Le spa était relaxant et très bien entretenu."},
		models.HighlightRestaurant:  {"Le restaurant proposait des plats délicieux."},
		models.HighlightWifi:        {"Le wifi était rapide et fiable."},
		models.HighlightQuiet:       {"L'hôtel était calme et nous avons très bien dormi."},
		models.HighlightParking:     {"Le parking était pratique et facile d'accès."},
	},
	keywords: map[models.Highlight]string{
		models.HighlightCleanliness: "propreté",
		models.HighlightStaff:       "personnel",
		models.HighlightLocation:    "emplacement",
		models.HighlightBreakfast:   "petit-déjeuner",
		models.HighlightRoom:        "chambre",
		models.HighlightComfort:     "confort",
		models.HighlightValue:       "qualité-prix",
		models.HighlightView:        "vue",
		models.HighlightPool:        "piscine",
		models.HighlightSpa:         "spa",
		models.HighlightRestaurant:  "restaurant",
		models.HighlightWifi:        "wifi",
		models.HighlightQuiet:       "calme",
		models.HighlightParking:     "parking",
	},
	staff:   []string{"Un grand merci à %s pour son accueil chaleureux."},
	comment: "En quelques mots : %s",
	rating:  "Dans l'ensemble, je donne à mon séjour la note de %d sur 5.",
	closings: []string{
		"Merci à toute l'équipe de l'hôtel pour l'accueil.",
		"J'espère que cet avis aidera d'autres voyageurs.",
		"Cet avis reflète mon expérience personnelle pendant le séjour.",
		"Je le recommande à ceux qui visitent la région.",
		"J'ai hâte de voir l'hôtel continuer à s'améliorer.",
	},
}

var german = &vocabulary{
	openings: map[ratingBand][]string{
		bandHigh: {"Ich hatte einen wunderbaren Aufenthalt im %s und komme gerne wieder."},
		bandMid:  {"Mein Aufenthalt im %s war insgesamt angenehm, mit ein paar Verbesserungsmöglichkeiten."},
		bandLow:  {"Mein Aufenthalt im %s hat meine Erwartungen nicht ganz erfüllt."},
	},
	highlights: map[models.Highlight][]string{
		models.HighlightCleanliness: {"Die Sauberkeit von Zimmer und Gemeinschaftsbereichen war tadellos."},
		models.HighlightStaff:       {"Das Personal war freundlich und aufmerksam."},
		models.HighlightLocation:    {"Die Lage ist ideal, um die Umgebung zu erkunden."},
		models.HighlightBreakfast:   {"Das Frühstück war jeden Morgen abwechslungsreich und frisch."},
		models.HighlightRoom:        {"Das Zimmer war geräumig und gut ausgestattet."},
		models.HighlightComfort:     {"Der Komfort der Betten sorgte für erholsamen Schlaf."},
		models.HighlightValue:       {"Das Preis-Leistungs-Verhältnis war sehr gut."},
		models.HighlightView:        {"Die Aussicht aus dem Zimmer war wunderschön."},
		models.HighlightPool:        {"Der Pool war sauber und lud zum Entspannen ein."},
		models.HighlightSpa:         {"Der Spa-Bereich war erholsam und sehr gepflegt."},
		models.HighlightRestaurant:  {"Das Restaurant bot köstliche Gerichte."},
		models.HighlightWifi:        {"Das WLAN war schnell und zuverlässig."},
		models.HighlightQuiet:       {"Das Hotel war ruhig, sodass wir sehr gut geschlafen haben."},
		models.HighlightParking:     {"Das Parken war einfach und bequem."},
	},
	keywords: map[models.Highlight]string{
		models.HighlightCleanliness: "sauberkeit",
		models.HighlightStaff:       "personal",
		models.HighlightLocation:    "lage",
		models.HighlightBreakfast:   "frühstück",
		models.HighlightRoom:        "zimmer",
		models.HighlightComfort:     "komfort",
		models.HighlightValue:       "preis-leistungs",
		models.HighlightView:        "aussicht",
		models.HighlightPool:        "pool",
		models.HighlightSpa:         "spa",
		models.HighlightRestaurant:  "restaurant",
		models.HighlightWifi:        "wlan",
		models.HighlightQuiet:       "ruhig",
		models.HighlightParking:     "parken",
	},
	staff:   []string{"Ein besonderer Dank geht an %s für den herzlichen Empfang."},
	comment: "In meinen eigenen Worten: %s",
	rating:  "Insgesamt bewerte ich meinen Aufenthalt mit %d von 5.",
	closings: []string{
		"Vielen Dank an das gesamte Team des Hotels.",
		"Ich hoffe, diese Bewertung hilft anderen Reisenden bei der Planung.",
		"Diese Bewertung gibt meine persönliche Erfahrung wieder.",
		"Ich kann es allen empfehlen, die die Gegend besuchen.",
		"Ich bin gespannt, wie sich das Hotel weiterentwickelt.",
	},
}

var portuguese = &vocabulary{
	openings: map[ratingBand][]string{
		bandHigh: {"Tive uma estadia maravilhosa no %s e voltaria com certeza."},
		bandMid:  {"Minha estadia no %s foi agradável no geral, com alguns pontos a melhorar."},
		bandLow:  {"Minha estadia no %s não atendeu totalmente às minhas expectativas."},
	},
	highlights: map[models.Highlight][]string{
		models.HighlightCleanliness: {"A limpeza do quarto e das áreas comuns era impecável."},
		models.HighlightStaff:       {"A equipe foi simpática e atenciosa o tempo todo."},
		models.HighlightLocation:    {"A localização é perfeita para explorar a região."},
		models.HighlightBreakfast:   {"O café da manhã era variado e fresco todos os dias."},
		models.HighlightRoom:        {"O quarto era espaçoso e bem equipado."},
		models.HighlightComfort:     {"O conforto das camas garantiu boas noites de sono."},
		models.HighlightValue:       {"O custo-benefício foi excelente."},
		models.HighlightView:        {"A vista do quarto era linda."},
		models.HighlightPool:        {"A piscina estava limpa e era ótima para relaxar."},
		models.HighlightSpa:         {"O spa era relaxante e muito bem cuidado."},
		models.HighlightRestaurant:  {"O restaurante servia pratos deliciosos."},
		models.HighlightWifi:        {"O wi-fi era rápido e confiável."},
		models.HighlightQuiet:       {"O hotel era tranquilo e dormimos muito bem."},
		models.HighlightParking:     {"O estacionamento foi fácil e prático."},
	},
	keywords: map[models.Highlight]string{
		models.HighlightCleanliness: "limpeza",
		models.HighlightStaff:       "equipe",
		models.HighlightLocation:    "localização",
		models.HighlightBreakfast:   "café da manhã",
		models.HighlightRoom:        "quarto",
		models.HighlightComfort:     "conforto",
		models.HighlightValue:       "custo-benefício",
		models.HighlightView:        "vista",
		models.HighlightPool:        "piscina",
		models.HighlightSpa:         "spa",
		models.HighlightRestaurant:  "restaurante",
		models.HighlightWifi:        "wi-fi",
		models.HighlightQuiet:       "tranquilo",
		models.HighlightParking:     "estacionamento",
	},
	staff:   []string{"Um agradecimento especial a %s pelo excelente atendimento."},
	comment: "Nas minhas palavras: %s",
	rating:  "No geral, dou nota %d de 5 para a minha estadia.",
	closings: []string{
		"Obrigado a toda a equipe do hotel pela recepção.",
		"Espero que esta avaliação ajude outros viajantes a decidir.",
		"Esta avaliação reflete a minha experiência pessoal.",
		"Recomendo a quem for visitar a região.",
		"Quero ver o hotel continuar melhorando no futuro.",
	},
}

var italian = &vocabulary{
	openings: map[ratingBand][]string{
		bandHigh: {"Ho trascorso un soggiorno meraviglioso al %s e ci tornerei volentieri."},
		bandMid:  {"Il mio soggiorno al %s è stato piacevole nel complesso, con qualche aspetto da migliorare."},
		bandLow:  {"Il mio soggiorno al %s non ha soddisfatto del tutto le mie aspettative."},
	},
	highlights: map[models.Highlight][]string{
		models.HighlightCleanliness: {"La pulizia della camera e degli spazi comuni era impeccabile."},
		models.HighlightStaff:       {"Il personale è stato cordiale e attento."},
		models.HighlightLocation:    {"La posizione è perfetta per esplorare la zona."},
		models.HighlightBreakfast:   {"La colazione era varia e fresca ogni mattina."},
		models.HighlightRoom:        {"La camera era spaziosa e ben attrezzata."},
		models.HighlightComfort:     {"Il comfort dei letti ci ha permesso di riposare bene."},
		models.HighlightValue:       {"Il rapporto qualità-prezzo era ottimo."},
		models.HighlightView:        {"La vista dalla camera era splendida."},
		models.HighlightPool:        {"La piscina era pulita e perfetta per rilassarsi."},
		models.HighlightSpa:         {"La spa era rilassante e ben curata."},
		models.HighlightRestaurant:  {"Il ristorante serviva piatti deliziosi."},
		models.HighlightWifi:        {"Il wi-fi era veloce e affidabile."},
		models.HighlightQuiet:       {"L'hotel era tranquillo e abbiamo dormito benissimo."},
		models.HighlightParking:     {"Il parcheggio era comodo e facile da usare."},
	},
	keywords: map[models.Highlight]string{
		models.HighlightCleanliness: "pulizia",
		models.HighlightStaff:       "personale",
		models.HighlightLocation:    "posizione",
		models.HighlightBreakfast:   "colazione",
		models.HighlightRoom:        "camera",
		models.HighlightComfort:     "comfort",
		models.HighlightValue:       "qualità-prezzo",
		models.HighlightView:        "vista",
		models.HighlightPool:        "piscina",
		models.HighlightSpa:         "spa",
		models.HighlightRestaurant:  "ristorante",
		models.HighlightWifi:        "wi-fi",
		models.HighlightQuiet:       "tranquill",
		models.HighlightParking:     "parcheggio",
	},
	staff:   []string{"Un ringraziamento speciale a %s per l'accoglienza."},
	comment: "Con parole mie: %s",
	rating:  "Nel complesso do al mio soggiorno un voto di %d su 5.",
	closings: []string{
		"Grazie a tutto lo staff dell'hotel per l'ospitalità.",
		"Spero che questa recensione aiuti altri viaggiatori.",
		"Questa recensione riflette la mia esperienza personale.",
		"Lo consiglio a chi visita la zona.",
		"Non vedo l'ora di vedere l'hotel migliorare ancora.",
	},
}
