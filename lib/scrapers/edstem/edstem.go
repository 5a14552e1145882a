package edstem

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"edarchive/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/edstem")

const DefaultBaseUrl = "https://us.edstem.org"

// page size used by the thread listing endpoint
const pageLimit = 30

var instrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes clients created afterwards dump their
// http exchanges to the given output. Debugging aid, nil by default.
func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	instrumentOutput = output
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36")
	client.SetHeader("accept", "application/json")
	client.SetHeader("origin", "https://edstem.org")
	client.SetTimeout(time.Second * 30)

	client.SetRetryCount(2)
	client.SetRetryWaitTime(time.Second)
	client.SetRetryMaxWaitTime(time.Second * 10)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return res.StatusCode() == 429 || res.StatusCode() >= 500
	})

	// 2 requests max per second
	// max burst >= 2 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(2, 2)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	restyutil.InstrumentClient(client, tracer, instrumentOutput)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// SetToken installs a pre-issued api token on the client, skipping the
// email/password exchange entirely.
func (c *Client) SetToken(token string) {
	c.Http.SetHeader("x-token", token)
}

// LoginType asks the service which authentication scheme applies to an
// account. Password accounts report "password".
func (c *Client) LoginType(ctx context.Context, login string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:LoginType")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(loginTypeRequest{Login: login}).
		Post("/api/login_type")
	if err != nil {
		span.SetStatus(codes.Error, "failed to request login type")
		return "", err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "login type request rejected")
		return "", fmt.Errorf("login type returned status %d: %w", res.StatusCode(), ErrAuthentication)
	}

	var body loginTypeResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode login type response")
		return "", err
	}

	span.SetAttributes(attribute.String("type", body.Type))
	return body.Type, nil
}

// LoginEmailPassword exchanges an email/password pair for a session
// token and installs it on the client.
func (c *Client) LoginEmailPassword(ctx context.Context, email, password string) error {
	ctx, span := tracer.Start(ctx, "client:LoginEmailPassword")
	defer span.End()

	loginType, err := c.LoginType(ctx, email)
	if err != nil {
		return err
	}
	if loginType != "password" {
		span.SetStatus(codes.Error, "unsupported login type")
		return fmt.Errorf("account requires login type %q: %w", loginType, ErrAuthentication)
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(tokenRequest{Login: email, Password: password}).
		Post("/api/token")
	if err != nil {
		span.SetStatus(codes.Error, "failed to request token")
		return err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "token request rejected")
		return fmt.Errorf("token endpoint returned status %d: %w", res.StatusCode(), ErrAuthentication)
	}

	var body tokenResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode token response")
		return err
	}
	if body.Token == "" {
		span.SetStatus(codes.Error, "token response was empty")
		return fmt.Errorf("no token in response: %w", ErrAuthentication)
	}

	c.SetToken(body.Token)
	return nil
}

// Threads fetches one page of the board's thread listing, newest
// first.
func (c *Client) Threads(ctx context.Context, boardId int64, offset, limit int) ([]ThreadSummary, error) {
	ctx, span := tracer.Start(ctx, "client:Threads")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("board_id", boardId),
		attribute.Int("offset", offset),
	)

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"limit":  fmt.Sprint(limit),
			"offset": fmt.Sprint(offset),
			"sort":   "new",
		}).
		Get(fmt.Sprintf("/api/courses/%d/threads", boardId))
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch thread listing")
		return nil, err
	}
	if res.StatusCode() == 401 || res.StatusCode() == 403 {
		span.SetStatus(codes.Error, "thread listing rejected")
		return nil, fmt.Errorf("thread listing returned status %d: %w", res.StatusCode(), ErrAuthentication)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "thread listing rejected")
		return nil, fmt.Errorf("thread listing returned status %d", res.StatusCode())
	}

	var body threadListResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode thread listing")
		return nil, err
	}

	out := make([]ThreadSummary, len(body.Threads))
	for i, t := range body.Threads {
		out[i] = ThreadSummary{Id: t.Id, Title: t.Title}
	}
	return out, nil
}

// AllThreads walks the paginated listing until it runs out, yielding
// every thread on the board exactly once.
func (c *Client) AllThreads(ctx context.Context, boardId int64) ([]ThreadSummary, error) {
	ctx, span := tracer.Start(ctx, "client:AllThreads")
	defer span.End()

	var all []ThreadSummary
	seen := map[int64]bool{}

	offset := 0
	for {
		page, err := c.Threads(ctx, boardId, offset, pageLimit)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "pagination aborted")
			return nil, fmt.Errorf("listing threads at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		for _, t := range page {
			// the listing is sorted by creation time, so a thread
			// posted mid-scrape can shift entries onto a later page
			if seen[t.Id] {
				continue
			}
			seen[t.Id] = true
			all = append(all, t)
		}

		if len(page) < pageLimit {
			break
		}
		offset += pageLimit
	}

	span.SetAttributes(attribute.Int("thread_count", len(all)))
	return all, nil
}

// Thread fetches the full content of a single thread. All failure
// modes come back as a *FetchError so callers can skip the thread
// without aborting the batch.
func (c *Client) Thread(ctx context.Context, threadId int64) (Thread, error) {
	ctx, span := tracer.Start(ctx, "client:Thread")
	defer span.End()

	span.SetAttributes(attribute.Int64("thread_id", threadId))

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("view", "1").
		Get(fmt.Sprintf("/api/threads/%d", threadId))
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch thread")
		return Thread{}, &FetchError{ThreadId: threadId, Err: err}
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "thread request rejected")
		return Thread{}, &FetchError{
			ThreadId: threadId,
			Err:      fmt.Errorf("status %d", res.StatusCode()),
		}
	}

	var body threadResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode thread")
		return Thread{}, &FetchError{ThreadId: threadId, Err: err}
	}

	thread, err := extractThread(body.Thread)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "thread failed schema validation")
		return Thread{}, &FetchError{ThreadId: threadId, Err: err}
	}
	return thread, nil
}

func extractThread(data threadData) (Thread, error) {
	err := data.validate()
	if err != nil {
		return Thread{}, err
	}

	createdAt, err := decodeTimestamp(data.CreatedAt)
	if err != nil {
		return Thread{}, fmt.Errorf("thread created_at: %w", err)
	}

	answers := make([]Answer, len(data.Answers))
	for i, a := range data.Answers {
		answerCreatedAt, err := decodeTimestamp(a.CreatedAt)
		if err != nil {
			return Thread{}, fmt.Errorf("answer %d created_at: %w", a.Id, err)
		}
		answers[i] = Answer{
			Id:         a.Id,
			Document:   a.Document,
			AuthorId:   a.UserId,
			CreatedAt:  answerCreatedAt,
			IsEndorsed: a.IsEndorsed,
		}
	}

	return Thread{
		Id:              data.Id,
		BoardId:         data.CourseId,
		Title:           data.Title,
		Document:        data.Document,
		Type:            data.Type,
		Category:        data.Category,
		AuthorId:        data.UserId,
		CreatedAt:       createdAt,
		IsAnswered:      data.IsAnswered,
		IsStaffAnswered: data.IsStaffAnswered,
		Answers:         answers,
	}, nil
}
