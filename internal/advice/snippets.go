package advice

import "github.com/qanoon-app/qanoon/internal/schema"

// Static excerpts of Qatari law included verbatim in the analysis prompt
// so the model grounds its narrative in the actual statutes.
var legalSnippets = map[schema.CaseType][]string{
	schema.CasePhishingSMS: {
		"Law No. 14 of 2014 (Cybercrime Prevention Law), Art. 11: whoever unlawfully obtains, through an information network or technology technique, movable property, a benefit, a deed or a signature thereof, shall be punished with imprisonment up to three years and/or a fine up to QAR 100,000.",
		"Law No. 14 of 2014, Art. 10: forging an electronic document or using a forged document while aware of its forgery is punishable with imprisonment and a fine.",
	},
	schema.CasePhishingEmail: {
		"Law No. 14 of 2014 (Cybercrime Prevention Law), Art. 11: fraud committed through an information network is punishable with imprisonment up to three years and/or a fine up to QAR 100,000.",
		"Law No. 14 of 2014, Art. 13: unlawfully intercepting transmitted data is an offence.",
	},
	schema.CaseOnlineFraud: {
		"Law No. 14 of 2014 (Cybercrime Prevention Law), Art. 11: online fraud is punishable with imprisonment up to three years and/or a fine up to QAR 100,000.",
		"Penal Code (Law No. 11 of 2004), Art. 354: obtaining property through fraudulent means is punishable with imprisonment.",
	},
	schema.CaseAccountHack: {
		"Law No. 14 of 2014 (Cybercrime Prevention Law), Art. 2: unlawfully accessing an information system, website or account is punishable; penalties increase where access results in deletion, alteration or disclosure of data.",
		"Law No. 14 of 2014, Art. 3: unlawful access to systems run by the state or its entities carries aggravated penalties.",
	},
	schema.CaseOnlineHarassment: {
		"Law No. 14 of 2014 (Cybercrime Prevention Law), Art. 8: whoever, through an information network, violates social values or principles, or publishes news, photos or recordings related to the sanctity of the private life of persons, even if true, shall be punished with imprisonment up to one year and/or a fine up to QAR 100,000.",
		"Penal Code (Law No. 11 of 2004), Arts. 326-331: defamation and insult provisions apply to statements made through any medium of publicity.",
	},
	schema.CaseGeneral: {
		"Penal Code (Law No. 11 of 2004) and the Civil Code (Law No. 22 of 2004) are the general statutes governing criminal and civil liability in Qatar.",
	},
}

func snippetsFor(ct schema.CaseType) []string {
	if s, ok := legalSnippets[ct]; ok {
		return s
	}
	return legalSnippets[schema.CaseGeneral]
}
