package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Decode failure sources
// 解码失败来源
const (
	decodeSourceExtract = "extract"
	decodeSourceResolve = "resolve"
	decodeSourceRecover = "recover"
	decodeSourceEdit    = "edit"
)

var (
	// pdfLinkDecodeFailures counts payloads that failed to decode
	// pdfLinkDecodeFailures 统计载荷解码失败次数
	pdfLinkDecodeFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fast_note",
		Subsystem: "pdf_link",
		Name:      "decode_failures_total",
		Help:      "Number of PDF link payloads that failed to decode.",
	}, []string{"source"})

	// pdfLinkOperations counts PDF link operations by result
	// pdfLinkOperations 统计 PDF 链接操作次数
	pdfLinkOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fast_note",
		Subsystem: "pdf_link",
		Name:      "operations_total",
		Help:      "Number of PDF link operations.",
	}, []string{"op", "result"})

	// pdfLinkSummaryLinks observes how many links one note summary holds
	// pdfLinkSummaryLinks 单条笔记汇总的链接数分布
	pdfLinkSummaryLinks = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fast_note",
		Subsystem: "pdf_link",
		Name:      "summary_links",
		Help:      "Links found per summarized note.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})
)

func init() {
	prometheus.MustRegister(pdfLinkDecodeFailures, pdfLinkOperations, pdfLinkSummaryLinks)
}

func observeOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	pdfLinkOperations.WithLabelValues(op, result).Inc()
}
