package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartMutationsTotal counts cart add/remove outcomes.
	CartMutationsTotal *prometheus.CounterVec
	// CartItemsAdded tracks quantities merged into carts.
	CartItemsAdded prometheus.Counter
	// ProductMutationsTotal counts catalog create/update/delete outcomes.
	ProductMutationsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of cart mutation outcomes.",
		}, []string{"op", "result"})
		CartItemsAdded = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_added_total",
			Help:      "Total quantity of items merged into carts.",
		})
		ProductMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_mutations_total",
			Help:      "Count of product mutation outcomes.",
		}, []string{"op", "result"})

		registerCollector(reg, CartMutationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartMutationsTotal = v
			}
		})
		registerCollector(reg, CartItemsAdded, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				CartItemsAdded = v
			}
		})
		registerCollector(reg, ProductMutationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ProductMutationsTotal = v
			}
		})
	})
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector, replace func(prometheus.Collector)) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			replace(are.ExistingCollector)
			return
		}
		panic(err)
	}
}

// ObserveProductMutation records the outcome of a catalog mutation when metrics are registered.
func ObserveProductMutation(op string, err error) {
	if ProductMutationsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	ProductMutationsTotal.WithLabelValues(op, result).Inc()
}

// ObserveCartItemsAdded accumulates merged quantities when metrics are registered.
func ObserveCartItemsAdded(quantity int64) {
	if CartItemsAdded == nil {
		return
	}
	CartItemsAdded.Add(float64(quantity))
}

// ObserveCartMutation records the outcome of a cart operation when metrics are registered.
func ObserveCartMutation(op string, err error) {
	if CartMutationsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	CartMutationsTotal.WithLabelValues(op, result).Inc()
}
