package metrics

import (
	"time"

	"chatwarden/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService struct {
	log *tracing.Logger
}

var (
	messagesHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_messages_handled_total",
			Help: "Total number of messages handled by the poller",
		},
		[]string{"status"},
	)

	messagesIgnored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_messages_ignored_total",
			Help: "Total number of messages ignored",
		},
		[]string{"reason"},
	)

	commandsUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_commands_used_total",
			Help: "Total number of commands used",
		},
		[]string{"command"},
	)

	parseFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_parse_failures_total",
			Help: "Total number of command texts that produced no intent",
		},
		[]string{"kind"},
	)

	expiryAdvisories = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "warden_expiry_advisories_total",
			Help: "Total number of restriction spans flagged as out of the enforceable range",
		},
	)

	menuNavigations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_menu_navigations_total",
			Help: "Total number of menu navigation actions",
		},
		[]string{"action"},
	)

	aliasFlows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_alias_flows_total",
			Help: "Total number of alias capture flows by outcome",
		},
		[]string{"outcome"},
	)

	aliasHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_alias_hits_total",
			Help: "Total number of messages rewritten through an alias",
		},
		[]string{"kind"},
	)

	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_messages_sent_total",
			Help: "Total number of messages sent by the diplomat",
		},
		[]string{"status"},
	)

	restrictionsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_restrictions_applied_total",
			Help: "Total number of moderation actions executed",
		},
		[]string{"action", "status"},
	)

	languagesDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_languages_detected_total",
			Help: "Total number of languages detected",
		},
		[]string{"lang"},
	)

	messageProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "warden_message_processing_duration_seconds",
			Help:    "Total duration of message processing",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(messagesHandled)
	prometheus.MustRegister(messagesIgnored)
	prometheus.MustRegister(commandsUsed)
	prometheus.MustRegister(parseFailures)
	prometheus.MustRegister(expiryAdvisories)
	prometheus.MustRegister(menuNavigations)
	prometheus.MustRegister(aliasFlows)
	prometheus.MustRegister(aliasHits)
	prometheus.MustRegister(messagesSent)
	prometheus.MustRegister(restrictionsApplied)
	prometheus.MustRegister(languagesDetected)
	prometheus.MustRegister(messageProcessingDuration)
}

func NewMetricsService(log *tracing.Logger) *MetricsService {
	return &MetricsService{
		log: log,
	}
}

func (s *MetricsService) RecordMessageHandled(status string) {
	messagesHandled.WithLabelValues(status).Inc()
}

func (s *MetricsService) RecordMessageIgnored(reason string) {
	messagesIgnored.WithLabelValues(reason).Inc()
}

func (s *MetricsService) RecordCommandUsed(command string) {
	commandsUsed.WithLabelValues(command).Inc()
}

func (s *MetricsService) RecordParseFailure(kind string) {
	parseFailures.WithLabelValues(kind).Inc()
}

func (s *MetricsService) RecordExpiryAdvisory() {
	expiryAdvisories.Inc()
}

func (s *MetricsService) RecordMenuNavigation(action string) {
	menuNavigations.WithLabelValues(action).Inc()
}

func (s *MetricsService) RecordAliasFlow(outcome string) {
	aliasFlows.WithLabelValues(outcome).Inc()
}

func (s *MetricsService) RecordAliasHit(kind string) {
	aliasHits.WithLabelValues(kind).Inc()
}

func (s *MetricsService) RecordMessageSent(status string) {
	messagesSent.WithLabelValues(status).Inc()
}

func (s *MetricsService) RecordRestriction(action string, status string) {
	restrictionsApplied.WithLabelValues(action, status).Inc()
}

func (s *MetricsService) RecordLanguageDetected(lang string) {
	languagesDetected.WithLabelValues(lang).Inc()
}

func (s *MetricsService) RecordMessageProcessingDuration(duration time.Duration) {
	messageProcessingDuration.Observe(duration.Seconds())
}
