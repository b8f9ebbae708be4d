package assistant

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"genie/finmath"
)

const (
	// ExampleAnnualRate is the growth rate quoted when the user names none.
	ExampleAnnualRate = 8.0
	// ExamplePrincipal is projected when the user has neither savings nor
	// investments.
	ExamplePrincipal = 1000.0
	// RecentActivityLimit is how many entries a summary lists.
	RecentActivityLimit = 3
	// MaxProjectionYears caps a horizon the user names.
	MaxProjectionYears = 100.0
)

var (
	sugBalance      = phrase{en: "What is my balance?", fr: "Quel est mon solde ?"}
	sugShouldInvest = phrase{en: "Should I invest?", fr: "Dois-je investir ?"}
	sugEmergency    = phrase{en: "Tell me about emergency funds", fr: "Parle-moi du fonds d'urgence"}
	sugRecent       = phrase{en: "Show my recent activity", fr: "Montre mon activité récente"}
	sugSaveMore     = phrase{en: "How can I save more?", fr: "Comment épargner plus ?"}
	sugBrowseFunds  = phrase{en: "Browse funds", fr: "Parcourir les fonds"}
	sugRiskLevels   = phrase{en: "Explain risk levels", fr: "Explique les niveaux de risque"}
	sugCompound     = phrase{en: "How does compound interest work?", fr: "Comment fonctionnent les intérêts composés ?"}
	sugDoubling     = phrase{en: "How long to double my money?", fr: "Combien de temps pour doubler mon argent ?"}
	sugBudget       = phrase{en: "Help me budget", fr: "Aide-moi à faire un budget"}
	sugTransfer     = phrase{en: "Send money", fr: "Envoyer de l'argent"}
	sugDeposit      = phrase{en: "Add money", fr: "Ajouter de l'argent"}
	sugPortfolio    = phrase{en: "Show my portfolio", fr: "Montre mes placements"}
	sugCircles      = phrase{en: "What are savings circles?", fr: "C'est quoi un cercle d'épargne ?"}
	sugHelp         = phrase{en: "What can you do?", fr: "Que sais-tu faire ?"}
	sugProfile      = phrase{en: "Open my profile", fr: "Ouvre mon profil"}
)

// DefaultSuggestions are offered whenever the input matched nothing.
var defaultSuggestions = []phrase{sugBalance, sugShouldInvest, sugEmergency, sugRecent}

var levelNames = map[finmath.Level]phrase{
	finmath.LevelBeginner:     {en: "beginner", fr: "débutant"},
	finmath.LevelIntermediate: {en: "intermediate", fr: "intermédiaire"},
	finmath.LevelAdvanced:     {en: "advanced", fr: "avancé"},
}

var (
	ratePattern  = regexp.MustCompile(`(-?\d+(?:[.,]\d+)?)\s*%`)
	yearsPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:years?|yrs?|années?|ans?)`)
)

// parseFigure pulls the first number captured by re out of text, accepting a
// comma as the decimal separator.
func parseFigure(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func buildShouldInvest(c *Composer, req Request) Draft {
	acct := req.Context.Account
	p := req.Policy

	if !p.HasAdequateEmergencyFund(acct.Savings, acct.Balance) {
		savings := c.Money(acct.Savings)
		ratio := c.Percent(float64(p.RatioPercent()))
		threshold := c.Money(p.EmergencyThreshold(acct.Balance))
		shortfall := c.Money(p.EmergencyFundShortfall(acct.Savings, acct.Balance))
		body := c.Tf(
			"Not yet. Build your emergency fund first.\n"+
				"You have %s in savings. Keep at least %s of your balance (%s) set aside before investing.\n"+
				"Save another %s and you'll be ready to start.",
			"Pas encore. Constituez d'abord votre fonds d'urgence.\n"+
				"Vous avez %s d'épargne. Gardez au moins %s de votre solde (%s) de côté avant d'investir.\n"+
				"Épargnez encore %s et vous pourrez commencer.",
			savings, ratio, threshold, shortfall)
		return c.Draft(body, ScreenSavings, sugEmergency, sugSaveMore, sugBalance)
	}

	level := req.Level.Level(finmath.LevelBeginner)
	a := p.RecommendedAllocation(level)
	savings := c.Money(acct.Savings)
	ratio := c.Percent(float64(p.RatioPercent()))
	low, medium, high := c.Percent(float64(a.Low)), c.Percent(float64(a.Medium)), c.Percent(float64(a.High))
	body := c.Tf(
		"Yes, your emergency fund looks healthy: %s saved, above %s of your balance.\n"+
			"For a %s investor I suggest %s low risk, %s medium risk and %s high risk.",
		"Oui, votre fonds d'urgence est solide : %s d'épargne, au-dessus de %s de votre solde.\n"+
			"Pour un profil %s, je propose %s à faible risque, %s à risque moyen et %s à risque élevé.",
		savings, ratio, c.p(levelNames[level]), low, medium, high)
	return c.Draft(body, ScreenInvest, sugBrowseFunds, sugRiskLevels, sugCompound)
}

func buildEmergencyFund(c *Composer, req Request) Draft {
	acct := req.Context.Account
	p := req.Policy

	var lines []string
	lines = append(lines, c.T(
		"An emergency fund is cash you can reach quickly when something goes wrong.",
		"Un fonds d'urgence est de l'argent disponible rapidement en cas de coup dur."))

	if monthly := req.Context.monthlyOutflow(); monthly > 0 {
		t := finmath.SuggestedEmergencyFundTarget(monthly)
		spend := c.Money(monthly)
		lo, ideal, hi := c.Money(t.Min), c.Money(t.Ideal), c.Money(t.Max)
		lines = append(lines, c.Tf(
			"You spend about %s a month, so aim for %s (3 months), ideally %s (6 months), up to %s (12 months).",
			"Vous dépensez environ %s par mois : visez %s (3 mois), idéalement %s (6 mois), jusqu'à %s (12 mois).",
			spend, lo, ideal, hi))
	} else {
		lines = append(lines, c.T(
			"I don't have your monthly spending yet, so I can't size the 3 to 12 month target.",
			"Je n'ai pas encore vos dépenses mensuelles, je ne peux donc pas calculer l'objectif de 3 à 12 mois."))
	}

	ratio := c.Percent(float64(p.RatioPercent()))
	threshold := c.Money(p.EmergencyThreshold(acct.Balance))
	savings := c.Money(acct.Savings)
	lines = append(lines, c.Tf(
		"Before investing, keep at least %s of your balance (%s) in savings. You have %s.",
		"Avant d'investir, gardez au moins %s de votre solde (%s) en épargne. Vous avez %s.",
		ratio, threshold, savings))

	if p.HasAdequateEmergencyFund(acct.Savings, acct.Balance) {
		lines = append(lines, c.T("You're covered.", "Vous êtes couvert."))
	} else {
		short := c.Money(p.EmergencyFundShortfall(acct.Savings, acct.Balance))
		lines = append(lines, c.Tf("You're %s short.", "Il vous manque %s.", short))
	}

	return c.Draft(strings.Join(lines, "\n"), ScreenSavings, sugSaveMore, sugShouldInvest, sugBudget)
}

func buildDoublingTime(c *Composer, req Request) Draft {
	rate, ok := parseFigure(ratePattern, req.Text)
	if !ok {
		rate = ExampleAnnualRate
	}

	years, ok := finmath.DoublingTimeYears(rate)
	if !ok {
		body := c.Tf(
			"At %s a year your money never doubles. You need a positive return.",
			"À %s par an, votre argent ne double jamais. Il faut un rendement positif.",
			c.Percent(rate))
		return c.Draft(body, "", sugCompound, sugBrowseFunds)
	}

	pct := c.Percent(rate)
	n := c.Number(years)
	body := c.Tf(
		"By the rule of 72, money growing at %s a year doubles in about %s years.",
		"Selon la règle de 72, un placement à %s par an double en environ %s ans.",
		pct, n)

	acct := req.Context.Account
	if acct.PortfolioValue > 0 {
		now := c.Money(acct.PortfolioValue)
		then := c.Money(finmath.CompoundGrow(acct.PortfolioValue, rate, years))
		body += "\n" + c.Tf(
			"Your portfolio of %s would reach about %s by then.",
			"Vos placements de %s atteindraient alors environ %s.",
			now, then)
	}
	return c.Draft(body, "", sugCompound, sugBrowseFunds, sugRiskLevels)
}

func buildCompoundInterest(c *Composer, req Request) Draft {
	acct := req.Context.Account
	rate, ok := parseFigure(ratePattern, req.Text)
	if !ok || rate < 0 {
		rate = ExampleAnnualRate
	}

	var principal float64
	var source string
	switch {
	case acct.Savings > 0:
		principal = acct.Savings
		source = c.Tf("your savings of %s", "votre épargne de %s", c.Money(principal))
	case acct.PortfolioValue > 0:
		principal = acct.PortfolioValue
		source = c.Tf("your portfolio of %s", "vos placements de %s", c.Money(principal))
	default:
		principal = ExamplePrincipal
		source = c.Tf("an example of %s", "un exemple de %s", c.Money(principal))
	}

	horizons := []float64{1, 5, 10}
	capped := false
	if y, ok := parseFigure(yearsPattern, req.Text); ok && y > 0 {
		if y > MaxProjectionYears {
			y, capped = MaxProjectionYears, true
		}
		horizons = []float64{y}
	}

	lines := []string{c.Tf(
		"Compound interest means your returns earn returns too. Starting from %s at %s a year:",
		"Avec les intérêts composés, vos gains produisent eux aussi des gains. En partant de %s à %s par an :",
		source, c.Percent(rate))}
	if capped {
		lines = append(lines, c.Tf(
			"I only project up to %s years, so here is that horizon.",
			"Je ne projette pas au-delà de %s ans, voici donc cet horizon.",
			c.Number(MaxProjectionYears)))
	}
	for _, y := range horizons {
		n := c.Number(y)
		v := c.Money(finmath.CompoundGrow(principal, rate, y))
		if y == 1 {
			lines = append(lines, c.Tf("• after %s year: %s", "• après %s an : %s", n, v))
		} else {
			lines = append(lines, c.Tf("• after %s years: %s", "• après %s ans : %s", n, v))
		}
	}
	return c.Draft(strings.Join(lines, "\n"), "", sugDoubling, sugBrowseFunds, sugRiskLevels)
}

func buildAllocation(c *Composer, req Request) Draft {
	level := req.Level.Level(finmath.LevelIntermediate)
	a := req.Policy.RecommendedAllocation(level)

	var intro string
	switch level {
	case finmath.LevelBeginner:
		intro = c.T(
			"Allocation is how you spread money across risk levels. Low risk moves slowly but rarely loses value. High risk can grow faster but swings more.",
			"L'allocation, c'est la répartition de votre argent entre niveaux de risque. Le faible risque progresse lentement mais perd rarement de la valeur. Le risque élevé peut croître plus vite mais varie davantage.")
	case finmath.LevelAdvanced:
		intro = c.T(
			"Keep a target mix and rebalance when a bucket drifts more than a few points from it.",
			"Gardez une répartition cible et rééquilibrez dès qu'une poche s'en écarte de quelques points.")
	default:
		intro = c.T(
			"A balanced mix keeps most of your money steady while a slice works harder.",
			"Une répartition équilibrée garde l'essentiel de votre argent stable pendant qu'une part travaille davantage.")
	}

	low, medium, high := c.Percent(float64(a.Low)), c.Percent(float64(a.Medium)), c.Percent(float64(a.High))
	lines := []string{intro, c.Tf(
		"For a %s investor: %s low risk, %s medium risk, %s high risk.",
		"Pour un profil %s : %s faible risque, %s risque moyen, %s risque élevé.",
		c.p(levelNames[level]), low, medium, high)}

	if pv := req.Context.Account.PortfolioValue; pv > 0 {
		l, m, h := finmath.Split(pv, a)
		total := c.Money(pv)
		ls, ms, hs := c.Money(l), c.Money(m), c.Money(h)
		lines = append(lines, c.Tf(
			"Applied to your portfolio of %s: %s / %s / %s.",
			"Appliqué à vos placements de %s : %s / %s / %s.",
			total, ls, ms, hs))
	}
	return c.Draft(strings.Join(lines, "\n"), ScreenPortfolio, sugBrowseFunds, sugCompound, sugShouldInvest)
}

func buildPortfolio(c *Composer, req Request) Draft {
	pv := req.Context.Account.PortfolioValue
	if pv <= 0 {
		body := c.T(
			"You have no investments yet.",
			"Vous n'avez pas encore de placements.")
		return c.Draft(body, ScreenPortfolio, sugShouldInvest, sugBrowseFunds)
	}
	body := c.Tf(
		"Your portfolio is worth %s. Opening it now.",
		"Vos placements valent %s. Je les ouvre.",
		c.Money(pv))
	return c.Draft(body, ScreenPortfolio, sugRiskLevels, sugCompound, sugBrowseFunds)
}

func buildInvest(c *Composer, req Request) Draft {
	acct := req.Context.Account
	p := req.Policy

	var body string
	switch req.Level.Level(finmath.LevelIntermediate) {
	case finmath.LevelBeginner:
		body = c.T(
			"Investing means putting money into assets like funds that can grow over time. Start small with a diversified fund and add regularly.",
			"Investir, c'est placer de l'argent dans des actifs comme des fonds qui peuvent croître avec le temps. Commencez petit avec un fonds diversifié et versez régulièrement.")
	case finmath.LevelAdvanced:
		body = c.T(
			"Compare expense ratios and track how each fund fits your target allocation before you buy.",
			"Comparez les frais de chaque fonds et vérifiez qu'il s'inscrit dans votre répartition cible avant d'acheter.")
	default:
		body = c.T(
			"Here are the funds you can invest in. Pick a mix that matches your risk level.",
			"Voici les fonds disponibles. Choisissez une répartition adaptée à votre niveau de risque.")
	}

	if !p.HasAdequateEmergencyFund(acct.Savings, acct.Balance) {
		ratio := c.Percent(float64(p.RatioPercent()))
		threshold := c.Money(p.EmergencyThreshold(acct.Balance))
		body += "\n" + c.Tf(
			"Tip: keep at least %s of your balance (%s) in savings first.",
			"Conseil : gardez d'abord au moins %s de votre solde (%s) en épargne.",
			ratio, threshold)
	}
	return c.Draft(body, ScreenInvest, sugShouldInvest, sugRiskLevels, sugCompound)
}

func buildCircles(c *Composer, _ Request) Draft {
	body := c.T(
		"A savings circle is a group that pays a fixed amount into a shared pot each period. Each member takes the pot in turn.",
		"Un cercle d'épargne est un groupe qui verse un montant fixe dans une cagnotte commune à chaque période. Chaque membre reçoit la cagnotte à tour de rôle.")
	return c.Draft(body, ScreenCircles, sugSaveMore, sugBalance)
}

func buildSavings(c *Composer, req Request) Draft {
	acct := req.Context.Account
	p := req.Policy

	lines := []string{c.Tf("You have %s in savings.", "Vous avez %s d'épargne.", c.Money(acct.Savings))}
	ratio := c.Percent(float64(p.RatioPercent()))
	threshold := c.Money(p.EmergencyThreshold(acct.Balance))
	if p.HasAdequateEmergencyFund(acct.Savings, acct.Balance) {
		lines = append(lines, c.Tf(
			"That meets the %s emergency target (%s). Consider investing the surplus.",
			"Cela atteint l'objectif d'urgence de %s (%s). Pensez à investir le surplus.",
			ratio, threshold))
	} else {
		short := c.Money(p.EmergencyFundShortfall(acct.Savings, acct.Balance))
		lines = append(lines, c.Tf(
			"Aim for at least %s of your balance (%s). You're %s short.",
			"Visez au moins %s de votre solde (%s). Il vous manque %s.",
			ratio, threshold, short))
	}
	lines = append(lines, c.T(
		"Setting money aside as soon as you get paid makes it easier.",
		"Mettre de côté dès que vous êtes payé rend la chose plus facile."))
	return c.Draft(strings.Join(lines, "\n"), ScreenSavings, sugEmergency, sugBudget, sugCircles)
}

func buildBalance(c *Composer, req Request) Draft {
	acct := req.Context.Account
	balance, savings, portfolio := c.Money(acct.Balance), c.Money(acct.Savings), c.Money(acct.PortfolioValue)
	body := c.Tf(
		"Your balance is %s.\nSavings: %s\nPortfolio: %s",
		"Votre solde est de %s.\nÉpargne : %s\nPlacements : %s",
		balance, savings, portfolio)
	return c.Draft(body, ScreenWallet, sugRecent, sugTransfer, sugDeposit)
}

func buildBudget(c *Composer, req Request) Draft {
	acts := req.Context.Activities
	outflow := totalOutflow(acts)
	if outflow <= 0 {
		body := c.T(
			"I don't have any spending to look at yet. Once you make a few payments I can help you plan a budget.",
			"Je n'ai pas encore de dépenses à analyser. Après quelques paiements, je pourrai vous aider à établir un budget.")
		return c.Draft(body, "", sugSaveMore, sugCircles)
	}

	biggest := acts[0]
	for _, a := range acts[1:] {
		if a.Amount < biggest.Amount {
			biggest = a
		}
	}
	total := c.Money(outflow)
	amount := c.Money(math.Abs(biggest.Amount))
	body := c.Tf(
		"Your recent spending adds up to %s. The biggest item was %s (%s).\nTry moving a fixed amount to savings as soon as money comes in, then spend what's left.",
		"Vos dépenses récentes s'élèvent à %s. Le poste le plus important : %s (%s).\nEssayez de virer un montant fixe vers l'épargne dès que l'argent arrive, puis dépensez le reste.",
		total, activityTitle(c, biggest), amount)
	return c.Draft(body, "", sugRecent, sugSaveMore, sugCircles)
}

func activityTitle(c *Composer, a Activity) string {
	if t := strings.TrimSpace(a.Title); t != "" {
		return t
	}
	return c.T("Untitled", "Sans titre")
}

func buildRecentActivity(c *Composer, req Request) Draft {
	acts := req.Context.Activities
	if len(acts) == 0 {
		body := c.T("No recent activity yet.", "Aucune activité récente pour l'instant.")
		return c.Draft(body, ScreenActivity, sugDeposit, sugBalance)
	}
	if len(acts) > RecentActivityLimit {
		acts = acts[:RecentActivityLimit]
	}
	lines := []string{c.T("Here is your recent activity:", "Voici votre activité récente :")}
	for _, a := range acts {
		lines = append(lines, "• "+activityTitle(c, a)+c.T(": ", " : ")+c.Money(a.Amount))
	}
	return c.Draft(strings.Join(lines, "\n"), ScreenActivity, sugBudget, sugBalance)
}

func buildTransfer(c *Composer, req Request) Draft {
	body := c.Tf(
		"Opening transfers. You can send up to your balance of %s.",
		"J'ouvre les virements. Vous pouvez envoyer jusqu'à votre solde de %s.",
		c.Money(req.Context.Account.Balance))
	return c.Draft(body, ScreenTransfer, sugBalance, sugRecent)
}

func buildDeposit(c *Composer, req Request) Draft {
	body := c.Tf(
		"Let's add money to your wallet. Your current balance is %s.",
		"Ajoutons de l'argent à votre portefeuille. Votre solde actuel est de %s.",
		c.Money(req.Context.Account.Balance))
	return c.Draft(body, ScreenDeposit, sugBalance, sugSaveMore)
}

func buildWhereAmI(c *Composer, req Request) Draft {
	s := req.Context.Screen
	if s == "" {
		body := c.T("I can't tell which screen you're on.", "Je ne sais pas sur quel écran vous êtes.")
		return c.Draft(body, "", sugHelp, sugBalance)
	}
	body := c.Tf("You're on the %s screen.", "Vous êtes sur l'écran %s.", c.p(screenNames[s]))
	return c.Draft(body, "", sugHelp, sugBalance)
}

func buildProfile(c *Composer, _ Request) Draft {
	body := c.T(
		"Opening your profile, where you can update your details and language.",
		"J'ouvre votre profil, où vous pouvez modifier vos informations et votre langue.")
	return c.Draft(body, ScreenProfile, sugHelp)
}

func buildHelp(c *Composer, _ Request) Draft {
	body := c.T(
		"I can help you with:\n• your balance, savings and portfolio\n• whether you're ready to invest\n• emergency funds and budgeting\n• compound interest and doubling time\n• transfers, deposits and savings circles",
		"Je peux vous aider avec :\n• votre solde, votre épargne et vos placements\n• savoir si vous êtes prêt à investir\n• le fonds d'urgence et le budget\n• les intérêts composés et le temps de doublement\n• les virements, les dépôts et les cercles d'épargne")
	return c.Draft(body, "", sugBalance, sugShouldInvest, sugBudget, sugCircles)
}

func buildGreeting(c *Composer, req Request) Draft {
	body := c.Tf(
		"Hi! Your balance is %s. How can I help today?",
		"Bonjour ! Votre solde est de %s. Comment puis-je vous aider ?",
		c.Money(req.Context.Account.Balance))
	return c.Draft(body, "", defaultSuggestions...)
}

func buildThanks(c *Composer, _ Request) Draft {
	body := c.T("You're welcome! Anything else?", "Avec plaisir ! Autre chose ?")
	return c.Draft(body, "", sugHelp, sugPortfolio, sugProfile)
}

func buildDefault(c *Composer, _ Request) Draft {
	body := c.T(
		"I'm not sure I understood. I can tell you your balance, check if you're ready to invest, explain emergency funds or show your recent activity.",
		"Je ne suis pas sûr d'avoir compris. Je peux vous donner votre solde, vérifier si vous êtes prêt à investir, expliquer le fonds d'urgence ou montrer votre activité récente.")
	return c.Draft(body, "", defaultSuggestions...)
}
