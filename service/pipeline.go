package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Krishan098/fo/model"
	"github.com/Krishan098/fo/pkg/logger"
)

// Pipeline stage names, in execution order.
var pipelineStages = []string{
	"reading_pdf",
	"extracting_contract_id",
	"party_extraction",
	"account_info_extraction",
	"financial_extraction",
	"payment_structure_extraction",
	"revenue_classification_extraction",
	"sla_extraction",
	"scoring",
	"saving_results",
}

// PipelineRunner drives the staged extraction for one contract at a time.
// It is the sole status/result writer for the contracts it runs; runs for
// different contracts may execute concurrently on separate workers.
type PipelineRunner struct {
	store      *ContractStore
	text       TextExtractor
	fields     FieldExtractor
	stageDelay time.Duration
}

func NewPipelineRunner(store *ContractStore, text TextExtractor, fields FieldExtractor, stageDelay time.Duration) *PipelineRunner {
	return &PipelineRunner{
		store:      store,
		text:       text,
		fields:     fields,
		stageDelay: stageDelay,
	}
}

// Run executes every stage in order for one contract. Any stage error
// aborts the rest of the run and marks the contract failed; the error never
// reaches the uploader, who already got a 200 at submission time.
func (r *PipelineRunner) Run(ctx context.Context, contractID string, data []byte, filename string) {
	ctx = logger.WithContractID(ctx, contractID)
	logger.Info(ctx, "pipeline started", "filename", filename, "size_bytes", len(data))

	var (
		text string
		ex   model.Extraction
	)
	var (
		docNumber string
		score     model.ScoreRecord
		gaps      []string
	)

	stageWork := map[string]func(context.Context) error{
		"reading_pdf": func(ctx context.Context) error {
			t, pages, err := r.text.ExtractText(ctx, data)
			if err != nil {
				return err
			}
			text = t
			logger.Debug(ctx, "pdf text extracted", "pages", pages, "chars", len(text))
			return nil
		},
		"extracting_contract_id": func(_ context.Context) error {
			docNumber = ExtractContractNumber(FirstPage(text))
			return nil
		},
		"party_extraction": func(ctx context.Context) error {
			p, err := r.fields.ExtractParty(ctx, text)
			ex.Party = p
			return r.tolerateMalformed(ctx, err)
		},
		"account_info_extraction": func(ctx context.Context) error {
			a, err := r.fields.ExtractAccountInfo(ctx, text)
			ex.AccountInfo = a
			return r.tolerateMalformed(ctx, err)
		},
		"financial_extraction": func(ctx context.Context) error {
			f, err := r.fields.ExtractFinancialDetails(ctx, text)
			ex.FinancialDetails = f
			return r.tolerateMalformed(ctx, err)
		},
		"payment_structure_extraction": func(ctx context.Context) error {
			p, err := r.fields.ExtractPaymentStructure(ctx, text)
			ex.PaymentStructure = p
			return r.tolerateMalformed(ctx, err)
		},
		"revenue_classification_extraction": func(ctx context.Context) error {
			rc, err := r.fields.ExtractRevenueClassification(ctx, text)
			ex.RevenueClassification = rc
			return r.tolerateMalformed(ctx, err)
		},
		"sla_extraction": func(ctx context.Context) error {
			s, err := r.fields.ExtractSLA(ctx, text)
			ex.SLA = s
			return r.tolerateMalformed(ctx, err)
		},
		"scoring": func(_ context.Context) error {
			score, gaps = ScoreExtraction(&ex)
			return nil
		},
		"saving_results": func(_ context.Context) error {
			r.store.SetResult(contractID, &model.ResultRecord{
				Filename:              filename,
				ContractID:            docNumber,
				SizeBytes:             int64(len(data)),
				Party:                 ex.Party,
				AccountInfo:           ex.AccountInfo,
				FinancialDetails:      ex.FinancialDetails,
				PaymentStructure:      ex.PaymentStructure,
				RevenueClassification: ex.RevenueClassification,
				SLA:                   ex.SLA,
				ConfidenceScores:      score,
				Gaps:                  gaps,
				CompletedAt:           time.Now(),
			})
			return nil
		},
	}

	for i, stage := range pipelineStages {
		r.store.SetStatus(contractID, model.StatusRecord{
			State:       model.StatusProcessing,
			Progress:    stageProgress(i, len(pipelineStages)),
			CurrentStep: stage,
		})

		if err := stageWork[stage](ctx); err != nil {
			logger.Error(ctx, "pipeline stage failed", "stage", stage, "error", err)
			r.store.SetStatus(contractID, model.StatusRecord{
				State:    model.StatusFailed,
				Progress: 100,
				Error:    err.Error(),
			})
			return
		}

		if r.stageDelay > 0 {
			time.Sleep(r.stageDelay)
		}
	}

	// SetResult already flipped the status to completed.
	logger.Info(ctx, "pipeline completed", "score", score.Overall, "gaps", len(gaps))
}

// tolerateMalformed downgrades unparseable model replies to a warning so
// the run finishes with gaps instead of failing. Everything else aborts.
func (r *PipelineRunner) tolerateMalformed(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMalformedOutput) {
		logger.Warn(ctx, "extraction output discarded", "error", err)
		return nil
	}
	return err
}

func stageProgress(index, total int) int {
	return int(math.Round(100 * float64(index+1) / float64(total)))
}
