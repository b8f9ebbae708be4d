package assistant

// Screen identifies an app screen the assistant can send the user to or
// refer to.
type Screen string

const (
	ScreenHome      Screen = "home"
	ScreenWallet    Screen = "wallet"
	ScreenPortfolio Screen = "portfolio"
	ScreenInvest    Screen = "invest"
	ScreenSavings   Screen = "savings"
	ScreenActivity  Screen = "activity"
	ScreenTransfer  Screen = "transfer"
	ScreenDeposit   Screen = "deposit"
	ScreenCircles   Screen = "circles"
	ScreenProfile   Screen = "profile"
	ScreenSupport   Screen = "support"
)

var screenNames = map[Screen]phrase{
	ScreenHome:      {en: "Home", fr: "Accueil"},
	ScreenWallet:    {en: "Wallet", fr: "Portefeuille"},
	ScreenPortfolio: {en: "Portfolio", fr: "Placements"},
	ScreenInvest:    {en: "Invest", fr: "Investir"},
	ScreenSavings:   {en: "Savings", fr: "Épargne"},
	ScreenActivity:  {en: "Activity", fr: "Activité"},
	ScreenTransfer:  {en: "Transfer", fr: "Virement"},
	ScreenDeposit:   {en: "Deposit", fr: "Dépôt"},
	ScreenCircles:   {en: "Circles", fr: "Cercles"},
	ScreenProfile:   {en: "Profile", fr: "Profil"},
	ScreenSupport:   {en: "Support", fr: "Assistance"},
}

// Valid reports whether s is one of the known screens.
func (s Screen) Valid() bool {
	_, ok := screenNames[s]
	return ok
}

// Screens returns every known screen.
func Screens() []Screen {
	out := make([]Screen, 0, len(screenNames))
	for s := range screenNames {
		out = append(out, s)
	}
	return out
}
