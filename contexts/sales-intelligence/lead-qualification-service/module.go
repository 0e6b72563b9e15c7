package leadqualificationservice

import (
	"log/slog"
	"time"

	httpadapter "leadqualifier/contexts/sales-intelligence/lead-qualification-service/adapters/http"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/adapters/memory"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/commands"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/queries"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/workers"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/analytics"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/services"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	IngestLead commands.IngestLeadUseCase
	SeedLeads  commands.SeedLeadsUseCase
	Reporter   workers.AnalyticsReporter
	Store      *memory.Store
}

type Dependencies struct {
	Leads       ports.LeadRepository
	Events      ports.EventRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	// Publisher is optional; nil disables event publication.
	Publisher        ports.EventPublisher
	InteractionTopic string
	Classifier       services.Classifier
	// Location is the reporting time zone. Nil means the process local zone.
	Location         *time.Location
	ReportWindowDays int
	SeedConcurrency  int
	SeedAugmentDelay time.Duration
	Logger           *slog.Logger
}

func NewModule(deps Dependencies) Module {
	reportClock := queries.ReportClock{Clock: deps.Clock, Location: deps.Location}
	windowDays := deps.ReportWindowDays
	if windowDays <= 0 {
		windowDays = analytics.DefaultWindowDays
	}

	usage := queries.UsageReportUseCase{Events: deps.Events, ReportClock: reportClock, Logger: deps.Logger}
	leadReport := queries.LeadReportUseCase{Leads: deps.Leads, ReportClock: reportClock, Logger: deps.Logger}
	topIndustries := queries.TopIndustriesUseCase{Events: deps.Events, ReportClock: reportClock, Logger: deps.Logger}

	return Module{
		Handler: httpadapter.Handler{
			ListLeads: queries.ListLeadsUseCase{Leads: deps.Leads, Logger: deps.Logger},
			GetLead:   queries.GetLeadUseCase{Leads: deps.Leads, Logger: deps.Logger},
			RecordEvent: commands.RecordEventUseCase{
				Events:    deps.Events,
				Clock:     deps.Clock,
				Publisher: deps.Publisher,
				IDGen:     deps.IDGenerator,
				Topic:     deps.InteractionTopic,
				Logger:    deps.Logger,
			},
			UsageReport:    usage,
			LeadReport:     leadReport,
			TopIndustries:  topIndustries,
			ViewPreference: queries.ViewPreferenceUseCase{Events: deps.Events, Logger: deps.Logger},
			CustomQueries: queries.CustomQueriesUseCase{
				Events:      deps.Events,
				Leads:       deps.Leads,
				ReportClock: reportClock,
				Logger:      deps.Logger,
			},
			Logger: deps.Logger,
		},
		IngestLead: commands.IngestLeadUseCase{
			Leads:      deps.Leads,
			Classifier: deps.Classifier,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
		SeedLeads: commands.SeedLeadsUseCase{
			Leads:        deps.Leads,
			Classifier:   deps.Classifier,
			Clock:        deps.Clock,
			Concurrency:  deps.SeedConcurrency,
			AugmentDelay: deps.SeedAugmentDelay,
			Publisher:    deps.Publisher,
			IDGen:        deps.IDGenerator,
			Topic:        deps.InteractionTopic,
			Logger:       deps.Logger,
		},
		Reporter: workers.AnalyticsReporter{
			Usage:         usage,
			Leads:         leadReport,
			TopIndustries: topIndustries,
			WindowDays:    windowDays,
			Logger:        deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module over a memory store with rule-only classification.
func NewInMemoryModule(seed []entities.Lead, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Leads:       store,
		Events:      store,
		Clock:       store,
		IDGenerator: store,
		Classifier:  services.NewClassifier(services.ClassifierConfig{}, nil, logger),
		Location:    time.UTC,
		Logger:      logger,
	})
	module.Store = store
	return module
}
