package keyword

import (
	"context"
	"testing"

	"github.com/af-corp/draftgen/internal/filter"
	"github.com/af-corp/draftgen/internal/types"
)

func TestScreen_VoteTermIsHigh(t *testing.T) {
	s := NewScreener(DefaultTerms())
	if got := s.Screen("주민 투표 참여 독려", ""); got != types.RiskHigh {
		t.Errorf("expected HIGH, got %s", got)
	}
}

func TestScreen_KeywordsAreScanned(t *testing.T) {
	s := NewScreener(DefaultTerms())
	if got := s.Screen("신년 인사말", "후원, 감사"); got != types.RiskHigh {
		t.Errorf("expected HIGH from keywords, got %s", got)
	}
}

func TestScreen_CleanText(t *testing.T) {
	s := NewScreener(DefaultTerms())
	clean := []string{
		"신년 인사말",
		"강남구 도서관 개관 소식",
		"어린이날 축하 메시지",
	}
	for _, text := range clean {
		if got := s.Screen(text, ""); got != types.RiskLow {
			t.Errorf("expected LOW for %q, got %s", text, got)
		}
	}
}

func TestScreen_CaseInsensitive(t *testing.T) {
	s := NewScreener([]string{"Election"})
	for _, text := range []string{"ELECTION day", "election day", "Local Election"} {
		if got := s.Screen(text, ""); got != types.RiskHigh {
			t.Errorf("expected HIGH for %q, got %s", text, got)
		}
	}
}

func TestMatches_ReturnsAllTerms(t *testing.T) {
	s := NewScreener(DefaultTerms())
	found := s.Matches("선거 후보 논란", "")
	names := map[string]bool{}
	for _, f := range found {
		names[f] = true
	}
	for _, want := range []string{"선거", "후보", "논란"} {
		if !names[want] {
			t.Errorf("expected %q among matches %v", want, found)
		}
	}
}

func TestSetTerms_Replaces(t *testing.T) {
	s := NewScreener(DefaultTerms())
	s.SetTerms([]string{"ballot", "  "})
	if got := s.Screen("투표", ""); got != types.RiskLow {
		t.Errorf("expected old terms to be dropped, got %s", got)
	}
	if got := s.Screen("mail-in ballot", ""); got != types.RiskHigh {
		t.Errorf("expected new term to match, got %s", got)
	}
}

func TestScanRequest_FlagsWithoutBlocking(t *testing.T) {
	s := NewScreener(DefaultTerms())
	req := &types.SanitizedRequest{Prompt: "탄핵 관련 입장", Keywords: ""}
	r := s.ScanRequest(context.Background(), req)
	if r.Action != filter.ActionFlag {
		t.Errorf("expected ActionFlag, got %s", r.Action)
	}
	if r.Risk != types.RiskHigh {
		t.Errorf("expected HIGH, got %s", r.Risk)
	}
	if len(r.Terms) != 1 || r.Terms[0] != "탄핵" {
		t.Errorf("unexpected terms: %v", r.Terms)
	}
}

func TestScanRequest_Pass(t *testing.T) {
	s := NewScreener(DefaultTerms())
	r := s.ScanRequest(context.Background(), &types.SanitizedRequest{Prompt: "신년 인사말"})
	if r.Action != filter.ActionPass || r.Risk != types.RiskLow {
		t.Errorf("expected pass/LOW, got %s/%s", r.Action, r.Risk)
	}
}
