package gallery

// Endpoint вызов шлюза, выбранный для режима
type Endpoint string

const (
	EndpointNone    Endpoint = ""
	EndpointAll     Endpoint = "list_all"
	EndpointPerson  Endpoint = "list_by_person" // статистика + страница ассетов
	EndpointKeyword Endpoint = "search_by_keyword"
)

// Merge способ объединения результата с текущим списком
type Merge string

const (
	MergeReplace Merge = "replace"
	MergeAppend  Merge = "append"
)

// Policy ограничения галереи, влияющие на выбор запроса
type Policy struct {
	Private bool
	Preview bool
}

// FetchPlan что и как загружать для текущего состояния
type FetchPlan struct {
	Endpoint Endpoint
	Merge    Merge
	Page     int
	PageSize int
	Skip     bool
	Reason   string // Почему запрос не выполняется (при Skip)
}

// PlanFetch выбирает запрос по состоянию. Чистая функция без побочных эффектов.
// Приватная галерея в режиме all никогда не загружается.
func PlanFetch(q QueryState, p Policy) FetchPlan {
	plan := FetchPlan{Page: q.Page, PageSize: q.PageSize}
	if plan.Page < 1 {
		plan.Page = 1
	}

	switch {
	case p.Preview:
		return skip(plan, "preview mode")
	case p.Private && q.Mode == ModeAll:
		return skip(plan, "private gallery does not list all assets")
	}

	switch q.Mode {
	case ModePerson:
		if q.PersonID == "" {
			return skip(plan, "person mode requires a person id")
		}
		plan.Endpoint, plan.Merge = EndpointPerson, MergeReplace
	case ModeKeyword:
		if q.Query == "" {
			return skip(plan, "keyword mode requires a query")
		}
		plan.Endpoint, plan.Merge = EndpointKeyword, MergeAppend
	case ModeAll:
		plan.Endpoint, plan.Merge = EndpointAll, MergeReplace
	default:
		return skip(plan, "unknown mode "+string(q.Mode))
	}
	return plan
}

func skip(plan FetchPlan, reason string) FetchPlan {
	plan.Endpoint = EndpointNone
	plan.Skip = true
	plan.Reason = reason
	return plan
}
