package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"primerdesign/api/models"
	"primerdesign/api/models/dtos"
	"primerdesign/api/services/design"
	"primerdesign/api/services/primers"
	"primerdesign/api/services/sequences"
)

var designFlags struct {
	primerMin, primerMax   int
	productMin, productMax int
	gcMin, gcMax           float64
	tmMin, tmMax           float64
	maxTmDifference        float64
	count                  int
	maxCandidates          int
	windowStart, windowEnd int
	remote                 bool
}

// designCmd designs primers for one target
var designCmd = &cobra.Command{
	Use:   "design <gene|ensembl-id|sequence>",
	Short: "Design ranked primer pairs",
	Long: `Design ranked primer pairs for a gene symbol, an Ensembl stable id or a
raw/FASTA nucleotide sequence. Gene symbols and ids are fetched from
Ensembl (falling back to NCBI) using the service's environment.`,
	Args: cobra.ExactArgs(1),
	RunE: runDesign,
}

func init() {
	d := models.DefaultDesignParameters()
	f := designCmd.Flags()
	f.IntVar(&designFlags.primerMin, "primer-min", d.PrimerLengthRange.Min, "Minimum primer length")
	f.IntVar(&designFlags.primerMax, "primer-max", d.PrimerLengthRange.Max, "Maximum primer length")
	f.IntVar(&designFlags.productMin, "product-min", d.ProductSizeRange.Min, "Minimum product size")
	f.IntVar(&designFlags.productMax, "product-max", d.ProductSizeRange.Max, "Maximum product size")
	f.Float64Var(&designFlags.gcMin, "gc-min", d.TargetGcRange.Min, "Minimum GC percent")
	f.Float64Var(&designFlags.gcMax, "gc-max", d.TargetGcRange.Max, "Maximum GC percent")
	f.Float64Var(&designFlags.tmMin, "tm-min", d.TargetTmRange.Min, "Minimum melting temperature")
	f.Float64Var(&designFlags.tmMax, "tm-max", d.TargetTmRange.Max, "Maximum melting temperature")
	f.Float64Var(&designFlags.maxTmDifference, "max-tm-difference", d.MaxTmDifference, "Largest allowed Tm difference within a pair")
	f.IntVarP(&designFlags.count, "count", "n", d.ResultCount, "Number of designs to return")
	f.IntVar(&designFlags.maxCandidates, "max-candidates", 0, "Stop enumerating after this many candidates (0: service default)")
	f.IntVar(&designFlags.windowStart, "window-start", 0, "Restrict primers to start at or after this offset")
	f.IntVar(&designFlags.windowEnd, "window-end", 0, "Restrict primers to end before this offset (0: whole template)")
	f.BoolVar(&designFlags.remote, "remote", false, "Try the configured remote design service first")
}

func designParameters(cfg *models.Config) models.DesignParameters {
	p := models.DefaultDesignParameters()
	p.PrimerLengthRange = models.IntRange{Min: designFlags.primerMin, Max: designFlags.primerMax}
	p.ProductSizeRange = models.IntRange{Min: designFlags.productMin, Max: designFlags.productMax}
	p.TargetGcRange = models.FloatRange{Min: designFlags.gcMin, Max: designFlags.gcMax}
	p.TargetTmRange = models.FloatRange{Min: designFlags.tmMin, Max: designFlags.tmMax}
	p.MaxTmDifference = designFlags.maxTmDifference
	p.ResultCount = designFlags.count

	p.MaxCandidates = cfg.Api.MaxCandidates
	if designFlags.maxCandidates > 0 {
		p.MaxCandidates = designFlags.maxCandidates
	}
	if designFlags.windowEnd > 0 {
		p.SearchWindow = &models.Window{Start: designFlags.windowStart, End: designFlags.windowEnd}
	}
	return p
}

func runDesign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var remote design.Strategy
	if designFlags.remote {
		if len(cfg.Remote.Url) == 0 {
			return errors.New("--remote needs PRIMERS_REMOTE_URL")
		}
		remote = design.NewRemoteStrategy(cfg.Remote.Url, cfg.Remote.Timeout)
	}

	cache := sequences.NewCache(sequences.NewRemoteProvider(cfg, logger), nil, logger)
	orchestrator := design.NewOrchestrator(cache, remote, design.NewLocalStrategy(), nil, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	target := args[0]
	result, designErr := orchestrator.Design(ctx, target, designParameters(cfg))

	dto := dtos.DesignResponseDTO{
		Status:  design.ResponseStatusFor(designErr),
		Target:  target,
		Results: []models.RankedDesign{},
	}
	if sequences.LooksLikeSequence(target) {
		dto.Target = "sequence"
	}
	if designErr != nil {
		var invalid *models.InvalidParametersError
		if errors.As(designErr, &invalid) {
			return designErr
		}
		dto.Message = designErr.Error()
	} else {
		dto.Target = result.Identifier
		dto.Result = result
		dto.Results = result.Designs
	}

	if err := render(cmd.OutOrStdout(), output, dto); err != nil {
		return err
	}
	if designErr != nil {
		return fmt.Errorf("design finished with status %s", dto.Status)
	}
	return nil
}

var analyzeFlags struct {
	polyRunThreshold int
	gcClampWindow    int
}

// analyzeCmd reports the metrics of one oligo
var analyzeCmd = &cobra.Command{
	Use:   "analyze <oligo>",
	Short: "Report GC, Tm, runs, self-dimer and clamp for one oligo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := sequences.Normalize("oligo", args[0])
		if err != nil {
			return err
		}
		oligo := string(seq)

		gc, _ := primers.GcPercent(oligo)
		tm, _ := primers.MeltingTemperature(oligo)
		run := primers.ThreePrimeComplementarity(oligo, oligo)

		return render(cmd.OutOrStdout(), output, dtos.PrimerAnalysisResponseDTO{
			Sequence:          oligo,
			Length:            primers.Length(oligo),
			GcPercent:         gc,
			MeltingTemp:       tm,
			TmFormula:         primers.TmFormula,
			LongestRun:        primers.LongestHomopolymer(oligo),
			HasPolyRun:        primers.HasPolyRun(oligo, analyzeFlags.polyRunThreshold),
			SelfDimerRun:      run,
			HasSelfDimer:      run >= primers.DimerMinRun,
			HasGcClamp:        primers.HasGcClamp(oligo, analyzeFlags.gcClampWindow),
			ReverseComplement: primers.ReverseComplement(oligo),
		})
	},
}

func init() {
	d := models.DefaultDesignParameters()
	analyzeCmd.Flags().IntVar(&analyzeFlags.polyRunThreshold, "poly-run-threshold", d.PolyRunThreshold, "Longest allowed single-base run")
	analyzeCmd.Flags().IntVar(&analyzeFlags.gcClampWindow, "gc-clamp-window", d.GcClampWindow, "3' bases searched for a G or C")
}
