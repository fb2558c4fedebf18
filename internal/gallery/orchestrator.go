package gallery

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/photocore/eventgallery/internal/gateway"
	"github.com/photocore/eventgallery/internal/logger"
)

// AssetGateway операции чтения API ассетов
type AssetGateway interface {
	ListAll(ctx context.Context, galleryUUID string, page, size int) (*gateway.AssetPage, error)
	ListByPerson(ctx context.Context, galleryUUID, personID string, page, size int) (*gateway.AssetPage, error)
	PersonStatistics(ctx context.Context, galleryUUID, personID string) (*gateway.PersonStats, error)
	SearchByKeyword(ctx context.Context, galleryUUID, keyword string, page, count int) (*gateway.AssetPage, error)
}

// MatchSignal результат внешнего распознавания лица по загруженному фото
type MatchSignal struct {
	PersonID *string `json:"person_id,omitempty"`
}

const loadFailedMessage = "Could not load photos. Please try again."

// trigger что вызвало загрузку
type trigger int

const (
	triggerMount trigger = iota
	triggerQuery
	triggerPage
)

// Orchestrator загружает ассеты публичной галереи в зависимости от режима
type Orchestrator struct {
	gw           AssetGateway
	state        *State
	urls         URLBuilder
	notifier     Notifier
	resetDelay   time.Duration
	placeholders []AssetMeta

	// Страницы поиска дописываются по очереди, в порядке запроса
	appendMu sync.Mutex
}

// OrchestratorConfig зависимости оркестратора
type OrchestratorConfig struct {
	Gateway    AssetGateway
	State      *State
	URLs       URLBuilder
	Notifier   Notifier
	ResetDelay time.Duration // Задержка перед обнулением прогресса
	// Заглушки для режима предпросмотра
	Placeholders []AssetMeta
}

// NewOrchestrator создает оркестратор
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	n := cfg.Notifier
	if n == nil {
		n = discardNotifier{}
	}
	return &Orchestrator{
		gw:           cfg.Gateway,
		state:        cfg.State,
		urls:         cfg.URLs,
		notifier:     n,
		resetDelay:   cfg.ResetDelay,
		placeholders: cfg.Placeholders,
	}
}

// State возвращает состояние галереи
func (o *Orchestrator) State() *State {
	return o.state
}

// Mount выполняет первую загрузку при открытии галереи
func (o *Orchestrator) Mount(ctx context.Context) error {
	if o.state.Preview() {
		gen := o.state.BeginFetch(false)
		o.state.SetTotal(gen, len(o.placeholders))
		o.state.ReplaceImages(gen, append([]AssetMeta(nil), o.placeholders...))
		o.state.FinishFetch(gen, false)
		return nil
	}
	return o.run(ctx, triggerMount, 0)
}

// ChangeQuery переключает режим или его параметры и загружает первую страницу
func (o *Orchestrator) ChangeQuery(ctx context.Context, mode Mode, query, personID string) error {
	query = strings.TrimSpace(query)
	personID = strings.TrimSpace(personID)

	// Значим только параметр активного режима
	switch mode {
	case ModeAll:
		query, personID = "", ""
	case ModePerson:
		query = ""
	case ModeKeyword:
		personID = ""
	}

	if !o.state.SetQuery(mode, query, personID) {
		return nil
	}
	return o.run(ctx, triggerQuery, 0)
}

// ChangePage переходит на страницу. В режиме keyword результаты дописываются
func (o *Orchestrator) ChangePage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	if !o.state.SetPage(page) {
		return nil
	}

	q := o.state.Query()
	if q.Mode != ModeKeyword {
		return o.run(ctx, triggerPage, 0)
	}

	o.appendMu.Lock()
	defer o.appendMu.Unlock()

	// Пока страница ждала очереди, поиск мог смениться
	if cur := o.state.Query(); !cur.sameSource(q.Mode, q.Query, q.PersonID) {
		logger.InfoLog.Printf("Gallery %s: page %d dropped, search changed", o.urls.GalleryUUID, page)
		return nil
	}
	return o.run(ctx, triggerPage, page)
}

// LoadMore загружает следующую страницу поиска, пока есть курсор
func (o *Orchestrator) LoadMore(ctx context.Context) error {
	q := o.state.Query()
	if q.Mode != ModeKeyword || q.NextPageCursor == "" {
		return nil
	}
	return o.ChangePage(ctx, q.Page+1)
}

// ApplyMatch обрабатывает результат распознавания. Без person_id режим не меняется
func (o *Orchestrator) ApplyMatch(ctx context.Context, signal MatchSignal) error {
	if signal.PersonID == nil || strings.TrimSpace(*signal.PersonID) == "" {
		o.notifier.Notify(NoticeWarning, "No face recognized. Try another photo.")
		return nil
	}
	return o.ChangeQuery(ctx, ModePerson, "", *signal.PersonID)
}

// run выполняет цикл загрузки. page > 0 задает страницу явно
func (o *Orchestrator) run(ctx context.Context, t trigger, page int) error {
	q := o.state.Query()
	if page > 0 {
		q.Page = page
	}
	plan := PlanFetch(q, Policy{Private: o.state.Private(), Preview: o.state.Preview()})
	if plan.Skip {
		logger.InfoLog.Printf("Gallery %s: fetch skipped: %s", o.urls.GalleryUUID, plan.Reason)
		return nil
	}

	overlay := false
	switch {
	case t == triggerMount || t == triggerQuery:
		o.state.ClearImages()
		overlay = true
	case q.Mode != ModeKeyword:
		// Каждая страница заменяет предыдущую
		o.state.ClearImages()
		o.state.Emit(EventScrollToGallery)
	}

	gen := o.state.BeginFetch(overlay)
	failed := true
	defer func() {
		o.finish(gen, failed)
	}()

	o.state.SetProgress(gen, 10)

	var err error
	switch plan.Endpoint {
	case EndpointPerson:
		err = o.fetchPerson(ctx, gen, q, plan)
	case EndpointKeyword:
		err = o.fetchKeyword(ctx, gen, q, plan)
	case EndpointAll:
		err = o.fetchAll(ctx, gen, plan)
	}
	if err != nil {
		logger.ErrorLog.Printf("Gallery %s: %s fetch failed: %v", o.urls.GalleryUUID, plan.Endpoint, err)
		if o.state.IsCurrent(gen) {
			o.notifier.Notify(NoticeError, loadFailedMessage)
		}
		return err
	}

	o.state.SetProgress(gen, 90)
	failed = false
	return nil
}

func (o *Orchestrator) fetchPerson(ctx context.Context, gen uint64, q QueryState, plan FetchPlan) error {
	stats, err := o.gw.PersonStatistics(ctx, o.urls.GalleryUUID, q.PersonID)
	if err != nil {
		return err
	}
	o.state.SetProgress(gen, 40)

	page, err := o.gw.ListByPerson(ctx, o.urls.GalleryUUID, q.PersonID, plan.Page, plan.PageSize)
	if err != nil {
		return err
	}
	o.state.SetProgress(gen, 70)

	if !o.state.IsCurrent(gen) {
		return o.stale(gen)
	}
	o.state.SetTotal(gen, stats.Assets)
	o.state.ReplaceImages(gen, o.urls.Assets(page.IDs))
	return nil
}

func (o *Orchestrator) fetchKeyword(ctx context.Context, gen uint64, q QueryState, plan FetchPlan) error {
	page, err := o.gw.SearchByKeyword(ctx, o.urls.GalleryUUID, q.Query, plan.Page, plan.PageSize)
	if err != nil {
		return err
	}
	o.state.SetProgress(gen, 60)

	if !o.state.AppendImages(gen, o.urls.Assets(page.IDs), page.NextPage) {
		return o.stale(gen)
	}
	return nil
}

func (o *Orchestrator) fetchAll(ctx context.Context, gen uint64, plan FetchPlan) error {
	page, err := o.gw.ListAll(ctx, o.urls.GalleryUUID, plan.Page, plan.PageSize)
	if err != nil {
		return err
	}
	o.state.SetProgress(gen, 50)

	if !o.state.IsCurrent(gen) {
		return o.stale(gen)
	}
	if page.HasTotal {
		o.state.SetTotal(gen, page.Total)
	}
	o.state.ReplaceImages(gen, o.urls.Assets(page.IDs))
	return nil
}

// stale результат устаревшего цикла отбрасывается, это не ошибка
func (o *Orchestrator) stale(gen uint64) error {
	logger.InfoLog.Printf("Gallery %s: discarding stale response of fetch #%d", o.urls.GalleryUUID, gen)
	return nil
}

// finish снимает флаги загрузки на любом пути выхода и обнуляет прогресс с задержкой
func (o *Orchestrator) finish(gen uint64, failed bool) {
	if !o.state.FinishFetch(gen, failed) {
		return
	}
	if o.resetDelay <= 0 {
		o.state.ResetProgress(gen)
		return
	}
	time.AfterFunc(o.resetDelay, func() {
		o.state.ResetProgress(gen)
	})
}
