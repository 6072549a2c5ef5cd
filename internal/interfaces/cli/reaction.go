package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/turtacn/ReactionLab/internal/application/reaction"
	"github.com/turtacn/ReactionLab/internal/domain/molecule"
	domain "github.com/turtacn/ReactionLab/internal/domain/reaction"
	"github.com/turtacn/ReactionLab/pkg/errors"
	"github.com/turtacn/ReactionLab/pkg/types/common"
	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

// ─────────────────────────────────────────────────────────────────────────────
// predict
// ─────────────────────────────────────────────────────────────────────────────

// NewPredictCmd creates the predict command.
func NewPredictCmd() *cobra.Command {
	var in app.PredictInput
	cmd := &cobra.Command{
		Use:   "predict [compound]",
		Short: "Predict the product of a reaction",
		Example: "  reactlab predict ethanol --catalyst hbr --reaction-type halogenation\n" +
			"  reactlab predict 'CC(O)C' -k k2cr2o7 -t oxidation --save -o json",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				in.Compound = args[0]
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cliCtx.Server != "" {
				out, err := remotePredict(cmd.Context(), cliCtx, in)
				if err != nil {
					return err
				}
				return printPrediction(cmd, out)
			}
			return withRuntime(cmd.Context(), cliCtx, runtimeOptions{}, func(rt *runtime) error {
				out, err := rt.service.Predict(cmd.Context(), in)
				if err != nil {
					return err
				}
				return printPrediction(cmd, out)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Compound, "compound", "", "compound name or SMILES")
	f.StringVarP(&in.Catalyst, "catalyst", "k", "", "catalyst code (see catalog)")
	f.StringVarP(&in.ReactionType, "reaction-type", "t", "", "oxidation, dehydration, halogenation or esterification")
	f.BoolVar(&in.SaveToDB, "save", false, "save the prediction to history")
	return cmd
}

func printPrediction(cmd *cobra.Command, out *app.PredictOutput) error {
	if err := PrintResult(cmd, predictionView{out}); err != nil {
		return err
	}
	if !out.Success {
		return reportedError{errors.New(out.Code, out.Error)}
	}
	return nil
}

type predictionView struct{ out *app.PredictOutput }

func (v predictionView) JSONValue() interface{} {
	if !v.out.Success {
		return common.NewErrorResponse(v.out.Error, v.out.Code.String())
	}
	return rtypes.PredictResponse{
		Success:         true,
		Reactant:        v.out.Reactant,
		ReactantSVG:     v.out.ReactantSVG,
		Catalyst:        v.out.Catalyst,
		ReactionType:    v.out.ReactionType,
		Product:         v.out.Product,
		ProductSVG:      v.out.ProductSVG,
		ReactionDetails: v.out.Details,
	}
}

func (v predictionView) String() string {
	if !v.out.Success {
		return "Prediction failed: " + v.out.Error
	}
	var sb strings.Builder
	if v.out.ReactantSMILES != "" {
		fmt.Fprintf(&sb, "Reactant:  %s (%s)\n", v.out.Reactant, v.out.ReactantSMILES)
	} else {
		fmt.Fprintf(&sb, "Reactant:  %s\n", v.out.Reactant)
	}
	fmt.Fprintf(&sb, "Reaction:  %s with %s\n", v.out.ReactionType, v.out.Catalyst)
	if f := formulaOf(v.out.Product); f != "" {
		fmt.Fprintf(&sb, "Product:   %s (%s)\n", v.out.Product, f)
	} else {
		fmt.Fprintf(&sb, "Product:   %s\n", v.out.Product)
	}
	fmt.Fprintf(&sb, "Details:   %s", v.out.Details)
	if v.out.RecordID > 0 {
		fmt.Fprintf(&sb, "\nSaved as record #%d", v.out.RecordID)
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// history
// ─────────────────────────────────────────────────────────────────────────────

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved predictions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cliCtx.Server != "" {
				c, err := newRemoteClient(cliCtx)
				if err != nil {
					return err
				}
				records, err := c.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return PrintResult(cmd, historyView(records))
			}
			return withRuntime(cmd.Context(), cliCtx, runtimeOptions{}, func(rt *runtime) error {
				records, err := rt.service.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return PrintResult(cmd, historyView(app.ToRecordDTOs(records)))
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of records (1-50, default history.limit)")
	return cmd
}

// formulaOf returns the Hill formula of smiles, or "" when it does not parse.
// Multi-product strings such as "CC(=O)O.O" parse as one disconnected molecule.
func formulaOf(smiles string) string {
	m, err := molecule.Parse(smiles)
	if err != nil {
		return ""
	}
	return m.Formula()
}

type historyView []rtypes.RecordDTO

func (v historyView) JSONValue() interface{} {
	return rtypes.HistoryResponse{Success: true, Reactions: v}
}

func (v historyView) TableHeaders() []string {
	return []string{"ID", "CREATED", "REACTANT", "REACTION", "CATALYST", "PRODUCT", "FORMULA"}
}

func (v historyView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, r := range v {
		created := ""
		if r.CreatedAt != nil {
			created = r.CreatedAt.Time().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10), created, r.Reactant, r.ReactionType, r.Catalyst, r.Product,
			formulaOf(r.Product),
		})
	}
	return rows
}

// ─────────────────────────────────────────────────────────────────────────────
// catalog
// ─────────────────────────────────────────────────────────────────────────────

// NewCatalogCmd creates the catalog command.
func NewCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List known compounds, catalysts and reaction types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cliCtx.Server != "" {
				c, err := newRemoteClient(cliCtx)
				if err != nil {
					return err
				}
				cat, err := c.Catalog(cmd.Context())
				if err != nil {
					return err
				}
				return PrintResult(cmd, catalogView(*cat))
			}
			svc := app.NewService(domain.NewPredictor(cliCtx.Logger), nil, nil, cliCtx.Logger)
			return PrintResult(cmd, catalogView(svc.Catalog()))
		},
	}
}

type catalogView rtypes.CatalogResponse

func (v catalogView) JSONValue() interface{} { return rtypes.CatalogResponse(v) }

func (v catalogView) String() string {
	var sb strings.Builder
	sb.WriteString("Compounds:\n  " + strings.Join(v.Alcohols, ", ") + "\n")
	sb.WriteString("Reaction types:\n")
	for _, e := range v.ReactionTypes {
		fmt.Fprintf(&sb, "  %-16s %-16s catalysts: %s\n", e.Code, e.Label,
			strings.Join(v.SuggestedCatalysts[e.Code], ", "))
	}
	sb.WriteString("Catalysts:\n")
	for i, e := range v.Catalysts {
		fmt.Fprintf(&sb, "  %-10s %s", e.Code, e.Label)
		if i < len(v.Catalysts)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

//Personal.AI order the ending
