package assistant

import "fmt"

const (
	IntentShouldInvest     IntentID = "should_invest"
	IntentEmergencyFund    IntentID = "emergency_fund"
	IntentDoublingTime     IntentID = "doubling_time"
	IntentCompoundInterest IntentID = "compound_interest"
	IntentAllocation       IntentID = "allocation"
	IntentPortfolio        IntentID = "portfolio"
	IntentInvest           IntentID = "invest"
	IntentCircles          IntentID = "circles"
	IntentSavings          IntentID = "savings"
	IntentBalance          IntentID = "balance"
	IntentBudget           IntentID = "budget"
	IntentRecentActivity   IntentID = "recent_activity"
	IntentTransfer         IntentID = "transfer"
	IntentDeposit          IntentID = "deposit"
	IntentWhereAmI         IntentID = "where_am_i"
	IntentProfile          IntentID = "profile"
	IntentHelp             IntentID = "help"
	IntentGreeting         IntentID = "greeting"
	IntentThanks           IntentID = "thanks"
	IntentDefault          IntentID = "default"
)

// Catalog positions. Reordering changes which intent wins for overlapping
// input: "should i invest" must stay ahead of "invest", "emergency fund" ahead
// of "fund", "savings circle" ahead of "saving", "budget" ahead of "spending".
const (
	PosShouldInvest = iota
	PosEmergencyFund
	PosDoublingTime
	PosCompoundInterest
	PosAllocation
	PosPortfolio
	PosInvest
	PosCircles
	PosSavings
	PosBalance
	PosBudget
	PosRecentActivity
	PosTransfer
	PosDeposit
	PosWhereAmI
	PosProfile
	PosHelp
	PosGreeting
	PosThanks
	PosDefault
)

var positions = map[IntentID]int{
	IntentShouldInvest:     PosShouldInvest,
	IntentEmergencyFund:    PosEmergencyFund,
	IntentDoublingTime:     PosDoublingTime,
	IntentCompoundInterest: PosCompoundInterest,
	IntentAllocation:       PosAllocation,
	IntentPortfolio:        PosPortfolio,
	IntentInvest:           PosInvest,
	IntentCircles:          PosCircles,
	IntentSavings:          PosSavings,
	IntentBalance:          PosBalance,
	IntentBudget:           PosBudget,
	IntentRecentActivity:   PosRecentActivity,
	IntentTransfer:         PosTransfer,
	IntentDeposit:          PosDeposit,
	IntentWhereAmI:         PosWhereAmI,
	IntentProfile:          PosProfile,
	IntentHelp:             PosHelp,
	IntentGreeting:         PosGreeting,
	IntentThanks:           PosThanks,
	IntentDefault:          PosDefault,
}

// DefaultRules returns the built-in rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{ID: IntentShouldInvest, Build: buildShouldInvest, Keywords: []string{
			"should i invest", "ready to invest", "can i start investing", "is it time to invest",
			"dois-je investir", "devrais-je investir", "prêt à investir", "pret a investir",
			"prête à investir", "prete a investir", "puis-je investir",
		}},
		{ID: IntentEmergencyFund, Build: buildEmergencyFund, Keywords: []string{
			"emergency", "rainy day", "safety net", "urgence", "coup dur",
			"épargne de précaution", "epargne de precaution",
		}},
		{ID: IntentDoublingTime, Build: buildDoublingTime, Keywords: []string{
			"double", "rule of 72", "règle de 72", "regle de 72", "règle des 72", "regle des 72",
		}},
		{ID: IntentCompoundInterest, Build: buildCompoundInterest, Keywords: []string{
			"compound", "interest", "grow my money", "how much will", "intérêt", "interet",
			"fructifier", "combien vais-je",
		}},
		{ID: IntentAllocation, Build: buildAllocation, Keywords: []string{
			"allocation", "allocate", "diversif", "asset mix", "risk",
			"répartition", "repartition", "répartir", "repartir", "risque",
		}},
		{ID: IntentPortfolio, Build: buildPortfolio, Keywords: []string{
			"portfolio", "my investments", "holdings",
			"mes investissements", "mes placements", "portefeuille d'investissement",
		}},
		{ID: IntentInvest, Build: buildInvest, Keywords: []string{
			"invest", "fund", "stock", "etf", "bond", "shares",
			"placement", "fonds", "bourse", "obligation",
		}},
		{ID: IntentCircles, Build: buildCircles, Keywords: []string{
			"circle", "group saving", "tontine", "susu", "chama", "cercle",
		}},
		{ID: IntentSavings, Build: buildSavings, Keywords: []string{
			"save", "saving", "épargn", "epargn", "économis", "economis",
			"mettre de côté", "mettre de cote",
		}},
		{ID: IntentBalance, Build: buildBalance, Keywords: []string{
			"balance", "how much money", "how much do i have", "account", "wallet",
			"solde", "combien d'argent", "combien j'ai", "compte", "porte-monnaie",
		}},
		{ID: IntentBudget, Build: buildBudget, Keywords: []string{
			"budget", "spend less", "cut back", "cut costs", "dépenser moins", "depenser moins",
		}},
		{ID: IntentRecentActivity, Build: buildRecentActivity, Keywords: []string{
			"activity", "activities", "transaction", "spent", "spending", "history", "recent",
			"activité", "activite", "dépens", "depens", "historique", "opérations", "operations",
			"mouvements", "récent",
		}},
		{ID: IntentTransfer, Build: buildTransfer, Keywords: []string{
			"transfer", "send", "pay someone", "virement", "envoyer", "transférer", "transferer",
		}},
		{ID: IntentDeposit, Build: buildDeposit, Keywords: []string{
			"deposit", "add money", "top up", "top-up", "dépôt", "depot", "déposer", "deposer",
			"recharger", "ajouter de l'argent", "alimenter",
		}},
		{ID: IntentWhereAmI, Build: buildWhereAmI, Keywords: []string{
			"where am i", "which screen", "what screen", "this screen", "this page",
			"où suis-je", "ou suis-je", "quel écran", "quel ecran", "quelle page", "cette page",
		}},
		{ID: IntentProfile, Build: buildProfile, Keywords: []string{
			"profile", "settings", "my details", "language",
			"profil", "paramètres", "parametres", "réglages", "reglages", "langue",
		}},
		{ID: IntentHelp, Build: buildHelp, Keywords: []string{
			"help", "what can you do", "what do you do", "aide", "que peux-tu", "que sais-tu faire",
		}},
		{ID: IntentGreeting, Build: buildGreeting, Keywords: []string{
			"hello", "hey", "good morning", "good afternoon", "good evening",
			"bonjour", "bonsoir", "salut", "coucou",
		}},
		{ID: IntentThanks, Build: buildThanks, Keywords: []string{
			"thank", "thx", "cheers", "merci",
		}},
		{ID: IntentDefault, Build: buildDefault, Always: true},
	}
}

// DefaultCatalog builds the built-in catalog and checks every rule sits at
// its declared position.
func DefaultCatalog() *Catalog {
	rules := DefaultRules()
	if len(rules) != len(positions) {
		panic(fmt.Sprintf("assistant: %d rules but %d positions", len(rules), len(positions)))
	}
	for i, r := range rules {
		want, ok := positions[r.ID]
		if !ok || want != i {
			panic(fmt.Sprintf("assistant: rule %q at position %d, declared %d", r.ID, i, want))
		}
	}
	return NewCatalog(rules)
}
