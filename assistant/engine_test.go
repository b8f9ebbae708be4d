package assistant_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genie/assistant"
	"genie/finmath"
	"genie/locale"
)

func newEngine(t *testing.T, opts ...assistant.Option) *assistant.Engine {
	t.Helper()
	f, err := locale.NewCurrencyFormatter("USD")
	require.NoError(t, err)
	e, err := assistant.NewEngine(f, opts...)
	require.NoError(t, err)
	return e
}

func richContext(lang string) assistant.Context {
	return assistant.Context{
		Account: &assistant.AccountSnapshot{
			Balance:        100000,
			PortfolioValue: 42000,
			Savings:        30000,
		},
		Activities: []assistant.Activity{
			{Title: "Rent", Amount: -1200},
			{Title: "Salary", Amount: 3000},
			{Title: "Coffee", Amount: -4.5},
			{Title: "Groceries", Amount: -85.2},
			{Title: "Gym", Amount: -30},
		},
		Language: lang,
		Screen:   assistant.ScreenHome,
	}
}

func sparseContext(lang string) assistant.Context {
	return assistant.Context{
		Account:  &assistant.AccountSnapshot{Balance: 100000, Savings: 10000},
		Language: lang,
	}
}

func TestOrderingInvariant(t *testing.T) {
	e := newEngine(t)
	rules := e.Catalog().Rules()

	for i, r := range rules {
		for _, kw := range r.Keywords {
			shadowed := false
			for _, earlier := range rules[:i] {
				for _, ekw := range earlier.Keywords {
					if strings.Contains(kw, ekw) {
						shadowed = true
					}
				}
			}
			if shadowed {
				continue
			}
			assert.Equal(t, r.ID, e.Catalog().Match(kw).ID, "keyword %q", kw)
		}
	}
}

func TestDefaultCatalogPositions(t *testing.T) {
	c := assistant.DefaultCatalog()
	tests := []struct {
		id  assistant.IntentID
		pos int
	}{
		{assistant.IntentShouldInvest, assistant.PosShouldInvest},
		{assistant.IntentEmergencyFund, assistant.PosEmergencyFund},
		{assistant.IntentInvest, assistant.PosInvest},
		{assistant.IntentCircles, assistant.PosCircles},
		{assistant.IntentSavings, assistant.PosSavings},
		{assistant.IntentBudget, assistant.PosBudget},
		{assistant.IntentRecentActivity, assistant.PosRecentActivity},
		{assistant.IntentDefault, assistant.PosDefault},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.pos, c.Position(tt.id), string(tt.id))
	}
	assert.Equal(t, -1, c.Position("nope"))
	assert.Len(t, c.Rules(), assistant.PosDefault+1)
}

func TestOverlappingInputResolvesToEarlierRule(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		in   string
		want assistant.IntentID
	}{
		{"Should I invest now?", assistant.IntentShouldInvest},
		{"what fund should I pick", assistant.IntentInvest},
		{"is my emergency fund big enough", assistant.IntentEmergencyFund},
		{"how does a savings circle work", assistant.IntentCircles},
		{"how do I save more", assistant.IntentSavings},
		{"help me budget my spending", assistant.IntentBudget},
		{"show my transaction history", assistant.IntentRecentActivity},
		{"Dois-je investir maintenant ?", assistant.IntentShouldInvest},
		{"quel est mon solde", assistant.IntentBalance},
		{"xyzzy", assistant.IntentDefault},
	}
	for _, tt := range tests {
		reply, err := e.Respond(tt.in, richContext("en"))
		require.NoError(t, err)
		assert.Equal(t, tt.want, reply.Intent, "input %q", tt.in)
	}
}

// inputs returns one message per rule: its first keyword, or filler for the
// fallback rule.
func inputs(e *assistant.Engine) []string {
	var out []string
	for _, r := range e.Catalog().Rules() {
		if r.Always {
			out = append(out, "xyzzy")
			continue
		}
		out = append(out, r.Keywords[0])
	}
	return out
}

func TestLocalizationParity(t *testing.T) {
	e := newEngine(t)
	contexts := map[string]func(string) assistant.Context{
		"rich":   richContext,
		"sparse": sparseContext,
	}

	for name, mk := range contexts {
		for _, in := range inputs(e) {
			en, err := e.Respond(in, mk("en"))
			require.NoError(t, err)
			fr, err := e.Respond(in, mk("fr"))
			require.NoError(t, err)

			assert.Equal(t, locale.English, en.Language)
			assert.Equal(t, locale.French, fr.Language)
			assert.Equal(t, en.Intent, fr.Intent, "%s/%q", name, in)
			assert.NotEmpty(t, en.Body, "%s/%q", name, in)
			assert.NotEmpty(t, fr.Body, "%s/%q", name, in)
			assert.NotEqual(t, en.Body, fr.Body, "%s/%q", name, in)
			assert.NotEmpty(t, en.Suggestions, "%s/%q", name, in)
			assert.Len(t, fr.Suggestions, len(en.Suggestions), "%s/%q", name, in)
			assert.LessOrEqual(t, len(en.Suggestions), assistant.MaxSuggestions)
			assert.Equal(t, en.Figures, fr.Figures, "%s/%q", name, in)
			assert.Equal(t, en.NavigateTo, fr.NavigateTo, "%s/%q", name, in)
		}
	}
}

func TestSuggestionsReenterPipeline(t *testing.T) {
	e := newEngine(t)
	for _, lang := range []string{"en", "fr"} {
		for _, in := range inputs(e) {
			reply, err := e.Respond(in, richContext(lang))
			require.NoError(t, err)
			for _, s := range reply.Suggestions {
				next, err := e.Respond(s, richContext(lang))
				require.NoError(t, err)
				assert.NotEqual(t, assistant.IntentDefault, next.Intent, "%s suggestion %q", lang, s)
			}
		}
	}
}

func TestUnmatchedInputYieldsDefaultReply(t *testing.T) {
	e := newEngine(t)
	for _, in := range []string{"xyzzy", "", "   ", "42"} {
		reply, err := e.Respond(in, sparseContext("en"))
		require.NoError(t, err)
		assert.Equal(t, assistant.IntentDefault, reply.Intent)
		assert.Equal(t, []string{
			"What is my balance?",
			"Should I invest?",
			"Tell me about emergency funds",
			"Show my recent activity",
		}, reply.Suggestions)
		assert.Empty(t, reply.NavigateTo)
	}
}

func TestBalanceScenario(t *testing.T) {
	e := newEngine(t)
	reply, err := e.Respond("what is my balance", assistant.Context{
		Account:  &assistant.AccountSnapshot{Balance: 125000},
		Language: "en",
	})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentBalance, reply.Intent)
	assert.Contains(t, reply.Body, "$125,000")
	assert.Equal(t, assistant.ScreenWallet, reply.NavigateTo)
}

func TestShouldInvestBelowThreshold(t *testing.T) {
	e := newEngine(t)
	reply, err := e.Respond("should i invest", assistant.Context{
		Account:  &assistant.AccountSnapshot{Balance: 100000, Savings: 10000},
		Language: "en",
	})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentShouldInvest, reply.Intent)
	assert.Contains(t, reply.Body, "emergency fund")
	assert.Contains(t, reply.Body, "$20,000")
	assert.Contains(t, reply.Body, "$10,000")
	assert.NotEqual(t, assistant.ScreenInvest, reply.NavigateTo)
	assert.NotContains(t, reply.Suggestions, "Browse funds")
}

func TestShouldInvestAboveThreshold(t *testing.T) {
	e := newEngine(t)
	reply, err := e.Respond("should i invest", assistant.Context{
		Account:  &assistant.AccountSnapshot{Balance: 100000, Savings: 30000},
		Language: "en",
	})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentShouldInvest, reply.Intent)
	assert.Equal(t, assistant.Unclassified, reply.Level)
	assert.Contains(t, reply.Body, "70% low risk")
	assert.Contains(t, reply.Body, "20% medium risk")
	assert.Contains(t, reply.Body, "10% high risk")
	assert.Contains(t, reply.Suggestions, "Browse funds")
	assert.Equal(t, assistant.ScreenInvest, reply.NavigateTo)
}

func TestShouldInvestAtExactThreshold(t *testing.T) {
	e := newEngine(t)
	reply, err := e.Respond("should i invest", assistant.Context{
		Account: &assistant.AccountSnapshot{Balance: 100000, Savings: 20000},
	})
	require.NoError(t, err)
	assert.Equal(t, assistant.ScreenInvest, reply.NavigateTo)
}

func TestPolicyOverrideIsSharedAcrossIntents(t *testing.T) {
	p := finmath.DefaultPolicy()
	p.EmergencyFundRatio = 0.5
	e := newEngine(t, assistant.WithPolicy(p))
	ctx := assistant.Context{Account: &assistant.AccountSnapshot{Balance: 100000, Savings: 30000}}

	invest, err := e.Respond("should i invest", ctx)
	require.NoError(t, err)
	assert.Equal(t, assistant.ScreenSavings, invest.NavigateTo)
	assert.Contains(t, invest.Body, "50%")

	explainer, err := e.Respond("tell me about emergency savings", ctx)
	require.NoError(t, err)
	assert.Equal(t, assistant.IntentEmergencyFund, explainer.Intent)
	assert.Contains(t, explainer.Body, "50%")
	assert.Contains(t, explainer.Body, "$50,000")
	assert.Contains(t, explainer.Body, "$20,000 short")
}

func TestNewEngineRejectsInvalidPolicy(t *testing.T) {
	f, err := locale.NewCurrencyFormatter("USD")
	require.NoError(t, err)

	p := finmath.DefaultPolicy()
	p.Beginner = finmath.Allocation{Low: 90, Medium: 20, High: 10}
	_, err = assistant.NewEngine(f, assistant.WithPolicy(p))
	assert.Error(t, err)

	_, err = assistant.NewEngine(nil)
	assert.Error(t, err)
}

func TestAllocationVariants(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		in    string
		level assistant.Sophistication
		want  []string
	}{
		{in: "explain allocation", level: assistant.Beginner, want: []string{"70%", "20%", "10%"}},
		{in: "allocation", level: assistant.Unclassified, want: []string{"50%", "30%", "20%"}},
		{in: "how should i rebalance my allocation", level: assistant.Advanced, want: []string{"30%", "40%"}},
	}
	for _, tt := range tests {
		reply, err := e.Respond(tt.in, sparseContext("en"))
		require.NoError(t, err)
		assert.Equal(t, assistant.IntentAllocation, reply.Intent, tt.in)
		assert.Equal(t, tt.level, reply.Level, tt.in)
		for _, w := range tt.want {
			assert.Contains(t, reply.Body, w, tt.in)
		}
		assert.Equal(t, assistant.ScreenPortfolio, reply.NavigateTo)
	}
}

func TestAllocationSplitsPortfolio(t *testing.T) {
	e := newEngine(t)
	reply, err := e.Respond("allocation", richContext("en"))
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "$42,000: $21,000 / $12,600 / $8,400")
}

func TestDoublingTime(t *testing.T) {
	e := newEngine(t)

	reply, err := e.Respond("how long to double at 6%", sparseContext("en"))
	require.NoError(t, err)
	assert.Equal(t, assistant.IntentDoublingTime, reply.Intent)
	assert.Contains(t, reply.Figures, 12.0)
	assert.Contains(t, reply.Body, "12 years")

	reply, err = e.Respond("how long to double", sparseContext("en"))
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "8%")
	assert.Contains(t, reply.Body, "9 years")

	reply, err = e.Respond("double my money at 0%", sparseContext("en"))
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "never doubles")
	assert.Empty(t, reply.NavigateTo)

	reply, err = e.Respond("combien de temps pour doubler à 4,5 %", sparseContext("fr"))
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "16 ans")
}

func TestCompoundInterestProjections(t *testing.T) {
	e := newEngine(t)
	ctx := assistant.Context{Account: &assistant.AccountSnapshot{}}

	reply, err := e.Respond("how does compound interest work", ctx)
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "$1,000")
	assert.Contains(t, reply.Body, "after 1 year: $1,080")
	assert.Contains(t, reply.Body, "after 10 years: $2,158.92")

	reply, err = e.Respond("compound interest over 3 years at 10%", ctx)
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "after 3 years: $1,331")
	assert.Equal(t, 1, strings.Count(reply.Body, "•"))
}

func TestCompoundInterestCapsLongHorizons(t *testing.T) {
	e := newEngine(t)
	ctx := assistant.Context{Account: &assistant.AccountSnapshot{Savings: 30000}}

	reply, err := e.Respond("how much will my savings grow in 9500 years at 8%", ctx)
	require.NoError(t, err)
	assert.Equal(t, assistant.IntentCompoundInterest, reply.Intent)
	assert.Contains(t, reply.Body, "only project up to 100 years")
	assert.Contains(t, reply.Body, "after 100 years:")
	assert.NotContains(t, reply.Body, "9,500")
	assert.NotContains(t, reply.Body, "after 100 years: $30,000")

	ctx.Language = "fr"
	fr, err := e.Respond("how much will my savings grow in 9500 years at 8%", ctx)
	require.NoError(t, err)
	assert.Contains(t, fr.Body, "au-delà de 100 ans")
	assert.Equal(t, reply.Figures, fr.Figures)
}

func TestEmergencyFundTargets(t *testing.T) {
	e := newEngine(t)
	ctx := assistant.Context{
		Account: &assistant.AccountSnapshot{Balance: 50000, Savings: 12000, MonthlyExpenses: 2000},
	}
	reply, err := e.Respond("how big should my emergency fund be", ctx)
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "$6,000")
	assert.Contains(t, reply.Body, "$12,000")
	assert.Contains(t, reply.Body, "$24,000")
	assert.Contains(t, reply.Body, "covered")
	assert.Equal(t, assistant.ScreenSavings, reply.NavigateTo)

	reply, err = e.Respond("emergency", sparseContext("en"))
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "don't have your monthly spending")
}

func TestRecentActivity(t *testing.T) {
	e := newEngine(t)

	reply, err := e.Respond("show my recent activity", richContext("en"))
	require.NoError(t, err)
	assert.Equal(t, assistant.ScreenActivity, reply.NavigateTo)
	assert.Equal(t, assistant.RecentActivityLimit, strings.Count(reply.Body, "•"))
	assert.Contains(t, reply.Body, "Rent: -$1,200")
	assert.NotContains(t, reply.Body, "Groceries")

	reply, err = e.Respond("show my recent activity", sparseContext("en"))
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "No recent activity")
}

func TestBudgetUsesOutflows(t *testing.T) {
	e := newEngine(t)
	reply, err := e.Respond("help me budget", richContext("en"))
	require.NoError(t, err)
	assert.Equal(t, assistant.IntentBudget, reply.Intent)
	assert.Contains(t, reply.Body, "$1,319.70")
	assert.Contains(t, reply.Body, "Rent ($1,200)")
}

func TestWhereAmI(t *testing.T) {
	e := newEngine(t)
	ctx := richContext("fr")
	ctx.Screen = assistant.ScreenWallet
	reply, err := e.Respond("où suis-je ?", ctx)
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "Portefeuille")
	assert.Empty(t, reply.NavigateTo)

	reply, err = e.Respond("where am i", sparseContext("en"))
	require.NoError(t, err)
	assert.Contains(t, reply.Body, "can't tell")
}

func TestUnsupportedLanguageFallsBackToEnglish(t *testing.T) {
	e := newEngine(t)
	reply, err := e.Respond("what is my balance", sparseContext("de-DE"))
	require.NoError(t, err)
	assert.Equal(t, locale.English, reply.Language)
	assert.Contains(t, reply.Body, "Your balance is $100,000.")
}

func TestRespondRejectsInvalidContext(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		name string
		ctx  assistant.Context
		want error
	}{
		{name: "no account", ctx: assistant.Context{}, want: assistant.ErrMissingAccount},
		{
			name: "nan balance",
			ctx:  assistant.Context{Account: &assistant.AccountSnapshot{Balance: math.NaN()}},
			want: assistant.ErrInvalidFigure,
		},
		{
			name: "inf activity",
			ctx: assistant.Context{
				Account:    &assistant.AccountSnapshot{},
				Activities: []assistant.Activity{{Title: "x", Amount: math.Inf(-1)}},
			},
			want: assistant.ErrInvalidFigure,
		},
		{
			name: "unknown screen",
			ctx:  assistant.Context{Account: &assistant.AccountSnapshot{}, Screen: "moon"},
			want: assistant.ErrUnknownScreen,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Respond("hello", tt.ctx)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEverydayWordsDoNotRouteToInvest(t *testing.T) {
	e := newEngine(t)
	for _, in := range []string{"how much did I spend on Netflix", "where is my refund"} {
		reply, err := e.Respond(in, richContext("en"))
		require.NoError(t, err)
		assert.NotEqual(t, assistant.IntentInvest, reply.Intent, in)
		assert.NotEqual(t, assistant.ScreenInvest, reply.NavigateTo, in)
	}
}

func TestCurlyApostrophesMatchFrenchKeywords(t *testing.T) {
	e := newEngine(t)
	reply, err := e.Respond("Combien d\u2019argent j\u2019ai ?", richContext("fr"))
	require.NoError(t, err)
	assert.Equal(t, assistant.IntentBalance, reply.Intent)
	assert.Equal(t, assistant.ScreenWallet, reply.NavigateTo)
}
