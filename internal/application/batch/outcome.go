package batch

// Status resultado de una unidad de trabajo dentro de un lote.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Outcome resultado estructurado de procesar una solicitud del lote.
type Outcome struct {
	Status  Status
	Message string
}

// Succeeded outcome exitoso sin mensaje.
func Succeeded() Outcome {
	return Outcome{Status: StatusSuccess}
}

// Failed outcome fallido con el motivo visible para el cliente.
func Failed(msg string) Outcome {
	return Outcome{Status: StatusFailed, Message: msg}
}

// OK indica si la unidad terminó con éxito.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// Aggregate estado agregado de todo el lote.
type Aggregate string

const (
	AggregateSuccess  Aggregate = "SUCCESS"
	AggregatePartial  Aggregate = "PARTIAL_SUCCESS"
	AggregateInvalid  Aggregate = "INVALID_REQUEST"
	AggregateInternal Aggregate = "INTERNAL_ERROR"
)

// Result resultado de un lote. Outcomes es nil para AggregateInvalid y AggregateInternal;
// en otro caso Outcomes[i] corresponde a la solicitud i.
type Result struct {
	Aggregate Aggregate
	Outcomes  []Outcome
}

// aggregate: todo éxito -> SUCCESS; cualquier otro caso (incluido cero éxitos) -> PARTIAL_SUCCESS.
func aggregate(outcomes []Outcome) Aggregate {
	for _, o := range outcomes {
		if !o.OK() {
			return AggregatePartial
		}
	}
	return AggregateSuccess
}
