package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the bot's Prometheus collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	SanctionsIssued  *prometheus.CounterVec
	SanctionsExpired *prometheus.CounterVec
	SanctionsDeleted prometheus.Counter
	RoleRemovals     *prometheus.CounterVec
	SweepTicks       prometheus.Counter
	CommandsHandled  *prometheus.CounterVec
	ActiveViews      *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SanctionsIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctionbot_sanctions_issued_total",
			Help: "Sanctions recorded, by kind.",
		}, []string{"kind"}),
		SanctionsExpired: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctionbot_sanctions_expired_total",
			Help: "Timed sanctions marked expired by the sweeper, by kind.",
		}, []string{"kind"}),
		SanctionsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "sanctionbot_sanctions_deleted_total",
			Help: "Sanction records removed through bulk deletion.",
		}),
		RoleRemovals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctionbot_mute_role_removals_total",
			Help: "Per-guild mute role removal attempts made by the sweeper, by result.",
		}, []string{"result"}),
		SweepTicks: factory.NewCounter(prometheus.CounterOpts{
			Name: "sanctionbot_sweep_ticks_total",
			Help: "Expiry sweeper passes.",
		}),
		CommandsHandled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctionbot_commands_total",
			Help: "Slash commands handled, by command and outcome.",
		}, []string{"command", "outcome"}),
		ActiveViews: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sanctionbot_active_views",
			Help: "Interactive views currently accepting interactions, by view.",
		}, []string{"view"}),
	}
}

func (m *Metrics) IncSanctionIssued(kind string) {
	if m == nil {
		return
	}
	m.SanctionsIssued.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncSanctionExpired(kind string) {
	if m == nil {
		return
	}
	m.SanctionsExpired.WithLabelValues(kind).Inc()
}

func (m *Metrics) AddSanctionsDeleted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SanctionsDeleted.Add(float64(n))
}

func (m *Metrics) IncRoleRemoval(result string) {
	if m == nil {
		return
	}
	m.RoleRemovals.WithLabelValues(result).Inc()
}

func (m *Metrics) IncSweepTick() {
	if m == nil {
		return
	}
	m.SweepTicks.Inc()
}

func (m *Metrics) IncCommand(command, outcome string) {
	if m == nil {
		return
	}
	m.CommandsHandled.WithLabelValues(command, outcome).Inc()
}

func (m *Metrics) SetActiveViews(view string, n int) {
	if m == nil {
		return
	}
	m.ActiveViews.WithLabelValues(view).Set(float64(n))
}
