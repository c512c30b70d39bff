package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"eva-framework/internal/adapter/llm"
	"eva-framework/internal/adapter/repository/gormdb"
	"eva-framework/internal/config"
	domain "eva-framework/internal/domain/screening"
	"eva-framework/internal/usecase/screening"
)

const (
	flagIncome    = "income"
	flagLoan      = "loan"
	flagAssets    = "assets"
	flagOtherDebt = "other-debt"
	flagAge       = "age"
	flagJob       = "job"
	flagFamily    = "family"
	flagRate      = "rate"
	flagYears     = "years"
	flagDTIMax    = "dti-max"
	flagDownMin   = "down-min"
	flagLTIMax    = "lti-max"
	flagJSON      = "json"
	flagLLM       = "llm"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "evactl",
		Short:         "Offline mortgage pre-screening against the EVΛƎ policy gate",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEvaluateCmd(), newPolicyCmd())
	return root
}

func newPolicyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the default policy thresholds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), domain.DefaultPolicy())
		},
	}
}

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one applicant and print decision, bottleneck and plans",
		Long: "Runs the same evaluation as POST /api/evaluate without a server.\n" +
			"Amounts are in man-yen. Discussion points use the fixed fallback list\n" +
			"unless --llm is set and LLM_API_KEY is configured.",
		Example: "  evactl evaluate --income 600 --loan 3000 --assets 300",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			in := domain.ApplicantInput{}
			in.IncomeMan, _ = f.GetFloat64(flagIncome)
			in.LoanRequestMan, _ = f.GetFloat64(flagLoan)
			in.AssetsMan, _ = f.GetFloat64(flagAssets)
			in.OtherDebtMan, _ = f.GetFloat64(flagOtherDebt)
			in.Job, _ = f.GetString(flagJob)
			in.Family, _ = f.GetString(flagFamily)
			if f.Changed(flagAge) {
				age, _ := f.GetInt(flagAge)
				in.Age = &age
			}

			policy, err := policyFromFlags(cmd)
			if err != nil {
				return err
			}

			llmCfg := llm.Config{}
			if useLLM, _ := f.GetBool(flagLLM); useLLM {
				cfg := config.Load()
				llmCfg = llm.Config{APIKey: cfg.LLMAPIKey, BaseURL: cfg.LLMBaseURL, Model: cfg.LLMModel, Timeout: cfg.LLMTimeout()}
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			uc := screening.NewUsecase(policy, llm.NewClient(llmCfg, logger), gormdb.NopTraceRepository{},
				screening.WithLogger(logger))

			dto, err := uc.Evaluate(cmd.Context(), in)
			if err != nil {
				return err
			}
			if asJSON, _ := f.GetBool(flagJSON); asJSON {
				return writeJSON(cmd.OutOrStdout(), dto)
			}
			printReport(cmd.OutOrStdout(), dto)
			return nil
		},
	}

	def := domain.DefaultPolicy()
	f := cmd.Flags()
	f.Float64(flagIncome, 0, "annual income (man-yen)")
	f.Float64(flagLoan, 0, "requested loan (man-yen)")
	f.Float64(flagAssets, 0, "own funds for the down payment (man-yen)")
	f.Float64(flagOtherDebt, 0, "other outstanding debt (man-yen)")
	f.Int(flagAge, 0, "applicant age")
	f.String(flagJob, "", "employment type, e.g. employee, self_employed")
	f.String(flagFamily, "", "household, e.g. single, with_children")
	f.Float64(flagRate, def.AnnualRatePct, "annual interest rate (%)")
	f.Float64(flagYears, def.Years, "repayment term (years)")
	f.Float64(flagDTIMax, def.DTIMaxPct, "max repayment burden ratio (%)")
	f.Float64(flagDownMin, def.DownPaymentMinPct, "min down payment ratio (%)")
	f.Float64(flagLTIMax, def.LTIMax, "max loan-to-income multiple")
	f.Bool(flagJSON, false, "print the full JSON envelope")
	f.Bool(flagLLM, false, "ask the configured LLM for discussion points")
	return cmd
}

func policyFromFlags(cmd *cobra.Command) (domain.Policy, error) {
	f := cmd.Flags()
	p := domain.DefaultPolicy()
	p.AnnualRatePct, _ = f.GetFloat64(flagRate)
	p.Years, _ = f.GetFloat64(flagYears)
	p.DTIMaxPct, _ = f.GetFloat64(flagDTIMax)
	p.DownPaymentMinPct, _ = f.GetFloat64(flagDownMin)
	p.LTIMax, _ = f.GetFloat64(flagLTIMax)
	return domain.NewPolicy(p)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func d1(v float64) string { return decimal.NewFromFloat(v).Round(1).String() }

func printReport(w io.Writer, dto *screening.EvaluationDTO) {
	g := dto.Gate
	bottleneck := string(g.Bottleneck)
	if bottleneck == "" {
		bottleneck = "-"
	}
	fmt.Fprintf(w, "decision:   %s\n", g.Decision)
	fmt.Fprintf(w, "bottleneck: %s\n", bottleneck)
	for _, r := range g.GateReasons {
		fmt.Fprintf(w, "  reason:   %s\n", r)
	}
	for _, s := range g.SoftFlags {
		fmt.Fprintf(w, "  flag:     %s\n", s.Message)
	}
	fmt.Fprintf(w, "metrics:    DTI %s%% / down %s%% / LTI %s (mortgage %s万円/月)\n",
		d1(g.Metrics.DTIPct), d1(g.Metrics.DownPaymentPct), d1(g.Metrics.LTI), d1(g.Metrics.EstMortgagePayMan))
	fmt.Fprintf(w, "required:   loan-DTI %s / other-debt %s / assets %s / loan-LTI %s (万円)\n",
		d1(g.Required.ReduceLoanForDTI), d1(g.Required.ReduceOtherDebt),
		d1(g.Required.IncreaseAssetsForDownPayment), d1(g.Required.ReduceLoanForLTI))
	fmt.Fprintf(w, "trace:      %s\n", dto.Trace.Reason)
	for _, p := range dto.Plans {
		fmt.Fprintf(w, "[%s] %s: %s\n", p.ID, p.Title, p.Summary)
		fmt.Fprintf(w, "    %s\n", strings.Join(p.Steps, " → "))
	}
	fmt.Fprintf(w, "discussion (%s):\n", dto.DiscussionSource)
	for _, s := range dto.DiscussionPoints {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}
