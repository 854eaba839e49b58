package ranking

// DefaultKeywordTable returns the curated breastfeeding keyword association
// table. Entries are matched in order; more specific triggers come first.
func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		{Trigger: "유선염", Terms: []string{"유선염", "발열", "울혈", "항생제", "마사지"}},
		{Trigger: "열", Terms: []string{"발열", "유선염", "체온", "해열제", "오한"}},
		{Trigger: "막힘", Terms: []string{"유관막힘", "멍울", "마사지", "울혈"}},
		{Trigger: "막혔", Terms: []string{"유관막힘", "멍울", "마사지", "울혈"}},
		{Trigger: "멍울", Terms: []string{"멍울", "유관막힘", "마사지", "냉찜질"}},
		{Trigger: "울혈", Terms: []string{"울혈", "냉찜질", "양배추", "유축"}},
		{Trigger: "상처", Terms: []string{"유두상처", "유두균열", "라놀린", "물리기", "수유자세"}},
		{Trigger: "갈라", Terms: []string{"유두균열", "유두상처", "라놀린"}},
		{Trigger: "통증", Terms: []string{"유두통증", "유두상처", "물리기", "유선염"}},
		{Trigger: "안물", Terms: []string{"젖거부", "수유거부", "물리기", "졸림", "수면"}},
		{Trigger: "거부", Terms: []string{"젖거부", "수유거부", "젖병선호", "유두혼동"}},
		{Trigger: "젖병", Terms: []string{"젖병", "유두혼동", "젖병선호", "혼합수유"}},
		{Trigger: "밤중", Terms: []string{"밤중수유", "수면", "수유간격"}},
		{Trigger: "수면", Terms: []string{"수면", "밤중수유", "수면교육", "낮잠"}},
		{Trigger: "젖양", Terms: []string{"모유량", "젖양", "유축", "수유횟수"}},
		{Trigger: "부족", Terms: []string{"모유량", "보충수유", "체중증가"}},
		{Trigger: "유축", Terms: []string{"유축", "유축기", "모유보관", "냉동"}},
		{Trigger: "보관", Terms: []string{"모유보관", "냉장", "냉동", "해동"}},
		{Trigger: "황달", Terms: []string{"황달", "모유황달", "빌리루빈", "광선치료"}},
		{Trigger: "체중", Terms: []string{"체중", "체중증가", "수유량", "소변횟수"}},
		{Trigger: "기저귀", Terms: []string{"소변횟수", "대변", "기저귀", "수유량"}},
		{Trigger: "단유", Terms: []string{"단유", "젖말리기", "울혈", "양배추"}},
		{Trigger: "약", Terms: []string{"수유중약물", "약물", "안전성"}},
		{Trigger: "트림", Terms: []string{"트림", "게워냄", "역류", "수유자세"}},
		{Trigger: "게워", Terms: []string{"게워냄", "역류", "트림"}},
		{Trigger: "자세", Terms: []string{"수유자세", "요람자세", "풋볼자세", "물리기"}},
		{Trigger: "간격", Terms: []string{"수유간격", "수유횟수", "수유일지"}},
		{Trigger: "횟수", Terms: []string{"수유횟수", "수유간격", "수유일지"}},
		{Trigger: "분유", Terms: []string{"혼합수유", "분유", "보충수유"}},
	}
}
