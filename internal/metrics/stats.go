package metrics

import "time"

// Availability は可用性（%）を返す。試行0件の場合は (0, false)
func Availability(successes, failures uint64) (float64, bool) {
	total := successes + failures
	if total == 0 {
		return 0, false
	}
	return float64(successes) / float64(total) * 100, true
}

// Loss はパケットロス率（%）を返す。送信予定0件の場合は (0, false)
func Loss(sent, verified int) (float64, bool) {
	if sent <= 0 {
		return 0, false
	}
	return float64(sent-verified) / float64(sent) * 100, true
}

// Throughput は1秒あたりの成功ユニット数を返す。経過時間0の場合は (0, false)
func Throughput(units uint64, elapsed time.Duration) (float64, bool) {
	if elapsed <= 0 {
		return 0, false
	}
	return float64(units) / elapsed.Seconds(), true
}
