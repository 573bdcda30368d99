package models

// All lists every model the kiosk schema carries, in migration order.
func All() []any {
	return []any{
		&Customer{},
		&Sale{},
		&OutboxEntry{},
		&DeliveryLog{},
		&Campaign{},
		&Trigger{},
		&TriggerLog{},
	}
}
