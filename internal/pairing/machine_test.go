package pairing

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	"geostamp_discord_bot/internal/geo"
	"geostamp_discord_bot/internal/geocode"
	"geostamp_discord_bot/internal/mapimg"
	"geostamp_discord_bot/internal/session"
)

type fakeFile struct {
	channelID string
	name      string
	data      []byte
	caption   string
}

type fakeSender struct {
	mu    sync.Mutex
	texts []string
	files []fakeFile
}

func (f *fakeSender) SendText(channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeSender) SendFile(channelID, filename string, data []byte, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, fakeFile{channelID: channelID, name: filename, data: data, caption: caption})
	return nil
}

func (f *fakeSender) fileCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

func (f *fakeSender) lastTextContaining(sub string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.texts {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}

type fakeFetcher struct{}

func (fakeFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	if strings.Contains(url, "bad") {
		return nil, fmt.Errorf("download failed: %s", url)
	}
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img, nil
}

type fakeResolver struct{}

func (fakeResolver) Geocode(ctx context.Context, query string) (geo.Point, error) {
	if query == "Tunjungan" {
		return geo.Point{Lat: -7.2571, Lon: 112.7521}, nil
	}
	return geo.Point{}, geocode.ErrNotFound
}

func (fakeResolver) ReverseGeocode(ctx context.Context, p geo.Point) string {
	return "Jalan Tunjungan, Surabaya, Jawa Timur, Indonesia"
}

func newTestMachine(debounce time.Duration) (*Machine, *fakeSender) {
	sender := &fakeSender{}
	maps := &mapimg.FixedProvider{Img: mapimg.Placeholder(200, 200)}
	m := NewMachine(session.NewStore(), fakeResolver{}, maps, fakeFetcher{}, sender, Options{
		DebounceDelay: debounce,
		CallTimeout:   5 * time.Second,
		Location:      time.UTC,
		Heuristics:    geo.DefaultHeuristics(),
	})
	return m, sender
}

var testPoint = geo.Point{Lat: -7.2571, Lon: 112.7521}

func TestPhotoThenLocation(t *testing.T) {
	m, sender := newTestMachine(time.Second)
	m.Enter("u1", "c1")

	m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/p1.jpg"})
	if !sender.lastTextContaining("位置情報") {
		t.Error("expected a prompt for the location")
	}

	m.OnLocation("u1", "c1", testPoint)
	if sender.fileCount() != 1 {
		t.Fatalf("file count = %d, want 1", sender.fileCount())
	}

	snap, ok := m.Snapshot("u1")
	if !ok {
		t.Fatal("session missing")
	}
	if snap.Mode != session.ModeIdle || snap.HasPending {
		t.Errorf("after pairing: mode=%v pending=%v", snap.Mode, snap.HasPending)
	}
	if snap.Counters.PhotosStamped != 1 {
		t.Errorf("PhotosStamped = %d", snap.Counters.PhotosStamped)
	}
}

func TestPairingOrderIndependence(t *testing.T) {
	m, sender := newTestMachine(time.Second)

	// 合成結果を決定的にするため日時を固定する
	m.Enter("a", "c1")
	m.Enter("b", "c1")
	m.OnSetCustomTime("a", "c1", "2024-06-01 14:30")
	m.OnSetCustomTime("b", "c1", "2024-06-01 14:30")

	m.OnPhoto("a", "c1", session.PhotoRef{URL: "http://x/p.jpg"})
	m.OnLocation("a", "c1", testPoint)

	m.OnLocation("b", "c1", testPoint)
	if sender.fileCount() != 1 {
		t.Fatalf("location-first should not produce a composite yet (files=%d)", sender.fileCount())
	}
	m.OnPhoto("b", "c1", session.PhotoRef{URL: "http://x/p.jpg"})

	if sender.fileCount() != 2 {
		t.Fatalf("file count = %d, want 2", sender.fileCount())
	}
	if !bytes.Equal(sender.files[0].data, sender.files[1].data) {
		t.Error("photo→location and location→photo produced different composites")
	}
}

func TestStickyBatchSinglePass(t *testing.T) {
	m, sender := newTestMachine(40 * time.Millisecond)
	m.Enter("u1", "c1")

	m.OnToggleSticky("u1", "c1")
	m.OnLocation("u1", "c1", testPoint)

	for i := 0; i < 3; i++ {
		m.OnPhoto("u1", "c1", session.PhotoRef{URL: fmt.Sprintf("http://x/p%d.jpg", i)})
	}

	time.Sleep(400 * time.Millisecond)

	if sender.fileCount() != 3 {
		t.Fatalf("file count = %d, want 3", sender.fileCount())
	}
	if !sender.lastTextContaining("3/3") {
		t.Error("expected a 3/3 batch summary")
	}

	snap, _ := m.Snapshot("u1")
	if snap.Counters.BatchesRun != 1 {
		t.Errorf("BatchesRun = %d, want 1", snap.Counters.BatchesRun)
	}
	if snap.BatchLen != 0 {
		t.Errorf("batch not drained: %d", snap.BatchLen)
	}
}

func TestStickyBatchTwoPasses(t *testing.T) {
	m, sender := newTestMachine(40 * time.Millisecond)
	m.Enter("u1", "c1")

	m.OnToggleSticky("u1", "c1")
	m.OnLocation("u1", "c1", testPoint)

	m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/p1.jpg"})
	time.Sleep(250 * time.Millisecond)
	m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/p2.jpg"})
	time.Sleep(250 * time.Millisecond)

	if sender.fileCount() != 2 {
		t.Fatalf("file count = %d, want 2", sender.fileCount())
	}
	snap, _ := m.Snapshot("u1")
	if snap.Counters.BatchesRun != 2 {
		t.Errorf("BatchesRun = %d, want 2", snap.Counters.BatchesRun)
	}
}

func TestStickyBatchFailureIsolation(t *testing.T) {
	m, sender := newTestMachine(40 * time.Millisecond)
	m.Enter("u1", "c1")

	m.OnToggleSticky("u1", "c1")
	m.OnLocation("u1", "c1", testPoint)

	m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/p1.jpg"})
	m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/bad.jpg"})
	m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/p3.jpg"})

	time.Sleep(400 * time.Millisecond)

	if sender.fileCount() != 2 {
		t.Fatalf("file count = %d, want 2 (failure must not abort the batch)", sender.fileCount())
	}
	if !sender.lastTextContaining("2/3") {
		t.Error("expected a 2/3 batch summary")
	}

	snap, _ := m.Snapshot("u1")
	if snap.Counters.RenderFailures != 1 {
		t.Errorf("RenderFailures = %d", snap.Counters.RenderFailures)
	}
}

func TestStickyUpdateLocation(t *testing.T) {
	m, sender := newTestMachine(40 * time.Millisecond)
	m.Enter("u1", "c1")

	m.OnToggleSticky("u1", "c1")
	m.OnLocation("u1", "c1", testPoint)

	updated := geo.Point{Lat: 35.6812, Lon: 139.7671}
	m.OnLocation("u1", "c1", updated)

	snap, _ := m.Snapshot("u1")
	if snap.Mode != session.ModeStickyActive {
		t.Fatalf("mode = %v", snap.Mode)
	}
	if snap.Sticky == nil || *snap.Sticky != updated {
		t.Errorf("sticky = %v, want %v", snap.Sticky, updated)
	}
	if !sender.lastTextContaining("更新") {
		t.Error("expected an update confirmation")
	}
}

func TestClearIdempotentFromEveryState(t *testing.T) {
	m, _ := newTestMachine(time.Hour)

	setup := []struct {
		name string
		prep func()
	}{
		{"idle", func() { m.Enter("u1", "c1") }},
		{"awaiting location", func() {
			m.Enter("u1", "c1")
			m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/p.jpg"})
		}},
		{"awaiting sticky", func() {
			m.Enter("u1", "c1")
			m.OnToggleSticky("u1", "c1")
		}},
		{"sticky active with live timer", func() {
			m.Enter("u1", "c1")
			m.OnToggleSticky("u1", "c1")
			m.OnLocation("u1", "c1", testPoint)
			m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/p.jpg"})
		}},
	}

	for _, tt := range setup {
		t.Run(tt.name, func(t *testing.T) {
			tt.prep()
			m.OnClear("u1", "c1")

			snap, ok := m.Snapshot("u1")
			if !ok {
				t.Fatal("session missing")
			}
			if snap.Mode != session.ModeIdle || snap.HasPending || snap.Sticky != nil || snap.BatchLen != 0 {
				t.Errorf("after clear: %+v", snap)
			}
			sess := m.Store().Peek("u1")
			sess.Lock()
			if sess.TimerLive() {
				t.Error("live timer survived clear")
			}
			sess.Unlock()
		})
	}
}

func TestSetCustomTimeValidation(t *testing.T) {
	m, sender := newTestMachine(time.Hour)
	m.Enter("u1", "c1")

	// 未設定の状態で不正な入力
	m.OnSetCustomTime("u1", "c1", "2024-13-40 25:99")
	snap, _ := m.Snapshot("u1")
	if snap.CustomTime != nil {
		t.Errorf("invalid input must not set the override, got %v", snap.CustomTime)
	}
	if !sender.lastTextContaining("形式") {
		t.Error("expected a format error reply")
	}

	// 正しい値を設定後、不正な入力で上書きされないこと
	m.OnSetCustomTime("u1", "c1", "2024-06-01 14:30")
	snap, _ = m.Snapshot("u1")
	if snap.CustomTime == nil {
		t.Fatal("valid input did not set the override")
	}
	want := *snap.CustomTime

	m.OnSetCustomTime("u1", "c1", "not a time")
	snap, _ = m.Snapshot("u1")
	if snap.CustomTime == nil || !snap.CustomTime.Equal(want) {
		t.Errorf("invalid input changed the override: %v", snap.CustomTime)
	}

	// reset で解除
	m.OnSetCustomTime("u1", "c1", "reset")
	snap, _ = m.Snapshot("u1")
	if snap.CustomTime != nil {
		t.Errorf("reset did not clear the override: %v", snap.CustomTime)
	}
}

func TestLocationRejectedByHeuristics(t *testing.T) {
	m, sender := newTestMachine(time.Hour)
	m.Enter("u1", "c1")
	m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/p.jpg"})

	// 整数ペアは誤検出として弾かれ、状態は変わらない
	m.OnLocation("u1", "c1", geo.Point{Lat: 7.0, Lon: 112.0})

	if sender.fileCount() != 0 {
		t.Fatal("rejected location must not produce a composite")
	}
	if !sender.lastTextContaining("不自然") {
		t.Error("expected a rejection reply")
	}
	snap, _ := m.Snapshot("u1")
	if snap.Mode != session.ModeAwaitingLocation || !snap.HasPending {
		t.Errorf("state changed by rejected location: %+v", snap)
	}
}

func TestToggleStickyOffDropsBatch(t *testing.T) {
	m, sender := newTestMachine(time.Hour)
	m.Enter("u1", "c1")

	m.OnToggleSticky("u1", "c1")
	m.OnLocation("u1", "c1", testPoint)
	m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/p.jpg"})

	m.OnToggleSticky("u1", "c1")

	snap, _ := m.Snapshot("u1")
	if snap.Mode != session.ModeIdle || snap.Sticky != nil {
		t.Errorf("after toggle off: %+v", snap)
	}
	if !sender.lastTextContaining("解除") {
		t.Error("expected a toggle-off reply")
	}
}

func TestLocateQuery(t *testing.T) {
	m, sender := newTestMachine(time.Hour)
	m.Enter("u1", "c1")
	m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/p.jpg"})

	// 見つからない地名は状態を変えない
	m.OnLocateQuery("u1", "c1", "nowhere")
	snap, _ := m.Snapshot("u1")
	if snap.Mode != session.ModeAwaitingLocation || !snap.HasPending {
		t.Errorf("state changed by failed lookup: %+v", snap)
	}

	// ヒットすれば位置情報として扱われ、保留中の写真とペアになる
	m.OnLocateQuery("u1", "c1", "Tunjungan")
	if sender.fileCount() != 1 {
		t.Fatalf("file count = %d, want 1", sender.fileCount())
	}
}

func TestEndToEndSticky(t *testing.T) {
	m, sender := newTestMachine(60 * time.Millisecond)
	m.Enter("u1", "c1")
	m.OnSetCustomTime("u1", "c1", "2024-06-01 14:30")

	m.OnToggleSticky("u1", "c1")
	m.OnLocation("u1", "c1", testPoint)

	m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/f1.jpg"})
	time.Sleep(20 * time.Millisecond)
	m.OnPhoto("u1", "c1", session.PhotoRef{URL: "http://x/f2.jpg"})

	time.Sleep(500 * time.Millisecond)

	if sender.fileCount() != 2 {
		t.Fatalf("file count = %d, want 2", sender.fileCount())
	}
	if !sender.lastTextContaining("2/2") {
		t.Error("expected a 2/2 batch summary")
	}
	// 同じ固定位置・固定日時なので合成結果は一致する
	if !bytes.Equal(sender.files[0].data, sender.files[1].data) {
		t.Error("both composites should use the sticky location")
	}
}
