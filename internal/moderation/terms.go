package moderation

// flaggedTerms is the built-in unsafe-term list, matched case-insensitively
// as substrings. TODO: swap for a maintained, locale-aware list once the
// external classification service is wired in.
var flaggedTerms = []string{
	"fuck", "fucked", "fucker", "fucking", "fuk", "fuking",
	"shit", "shitty", "shite", "shithead", "shitting",
	"bitch", "bitches", "bitchy", "b1tch",
	"asshole", "assholes", "arsehole", "a$$",
	"cunt", "cunts", "c*nt",
	"bastard", "bastards",
	"dick", "dickhead", "d1ck",
	"pussy", "pussies", "p*ssy",
	"cock", "c0ck", "c*ck",
	"slut", "sluts", "slutty",
	"whore", "whores", "wh0re",
	"twat", "tw@t",
	"prick", "pr1ck",
	"wanker", "wankers", "wank",
	"bollocks", "bollock",
	"damn", "dammit", "damnit",
	"crap", "crappy",
	"bugger", "buggered",
	"motherfucker", "motherfucking", "muthafucka",
	"douchebag", "douchebags",
	"jackass", "jackasses",
	"dipshit", "dipshits",
	"dumbass", "dumbasses",
	"skank", "skanky",
	"jizz", "jizzed",
	"cumshot", "cumslut",
	"blowjob", "blowjobs", "blow job",
	"handjob", "handjobs", "hand job",
	"rimjob", "rimjobs",
	"masturbate", "masturbating", "masturbation",
	"jerkoff", "jerk off",
	"porn", "porno", "pornography", "pr0n",
	"rape", "raped", "raping", "rapist",
	"molest", "molested", "molester",
	"pedophile", "pedophilia",
	"bestiality", "beastiality",
	"sodomize", "sodomized",
	"prostitute", "prostitution",
	"dominatrix",
	"bdsm",
}
