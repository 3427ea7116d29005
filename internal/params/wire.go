package params

// Flatten converts the strict editing shape into the backend's save body:
// advanced leaves are spread to the top level, the advanced key itself is
// dropped, and enable_alerts mirrors notifications. The same shape is posted
// both to the running instance and to profile persistence.
func Flatten(p InstanceParameters) map[string]interface{} {
	out := map[string]interface{}{
		"long":          p.Long,
		"short":         p.Short,
		"hedge":         p.Hedge,
		"autoTrade":     p.AutoTrade,
		"notifications": p.Notifications,
		"enable_alerts": p.Notifications,
	}

	if adv := p.Advanced; adv != nil {
		out["symbol"] = adv.Symbol
		out["leverage"] = adv.Leverage
		out["mode"] = string(adv.Mode)
		out["order_type"] = string(adv.OrderType)
		out["interval"] = adv.Interval
		out["max_daily_loss"] = adv.MaxDailyLoss
		out["emergency_stop_loss"] = adv.EmergencyStopLoss
		out["enable_logging"] = adv.EnableLogging
		out["enable_performance_monitoring"] = adv.EnablePerformanceMonitoring
		out["enable_webhooks"] = adv.EnableWebhooks
	}

	return out
}
