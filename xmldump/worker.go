package xmldump

import (
	"io"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
)

// ProcessFunc handles one (page, revision) pair, typically by feeding
// revision.Text into a wikitext.Parser and routing the result to a store or
// writer. A non-nil return is never fatal to the dump: the Driver logs it
// with page id/title fields and moves on to the next revision (§7,
// "StackOverflow ... logged, skipped, continue").
type ProcessFunc func(page Page, revision Revision) error

// Driver runs ProcessFunc over every revision of a dump, optionally
// fanning pages out across Workers independent goroutines (§5: "No shared
// mutable state between workers"). Each worker carries its own run id for
// log correlation, mirroring stephen-mw/wikireader_fastparse's worker pool
// structured around channels.
type Driver struct {
	// Workers is the number of concurrent page processors. 0 or 1 means
	// sequential (pages handled as they are decoded, in document order).
	Workers int

	Logger logrus.FieldLogger
}

func (d *Driver) logger() logrus.FieldLogger {
	if d.Logger != nil {
		return d.Logger
	}
	return logrus.StandardLogger()
}

// pageJob is one decoded page dispatched to a worker.
type pageJob struct {
	page Page
	revs []Revision
}

// Run reads the dump from r and calls process for every revision. With
// Workers <= 1 pages are processed synchronously as they are decoded (the
// dump read and the processing share one goroutine); with Workers > 1,
// decoded pages are fanned out to a pool and revisions within one page are
// always handled by the same worker, in order.
func (d *Driver) Run(r io.Reader, process ProcessFunc) error {
	if d.Workers <= 1 {
		return Pages(r, func(page Page, revs []Revision) error {
			d.processPage(d.logger(), page, revs, process)
			return nil
		})
	}
	return d.runConcurrent(r, process)
}

func (d *Driver) runConcurrent(r io.Reader, process ProcessFunc) error {
	jobs := make(chan pageJob, d.Workers)
	var wg sync.WaitGroup

	for i := 0; i < d.Workers; i++ {
		wg.Add(1)
		workerID, err := uuid.NewV4()
		if err != nil {
			return err
		}
		log := d.logger()
		if entry, ok := log.(*logrus.Entry); ok {
			log = entry.WithField("worker_id", workerID.String())
		} else if base, ok := log.(*logrus.Logger); ok {
			log = base.WithField("worker_id", workerID.String())
		}
		go func(log logrus.FieldLogger) {
			defer wg.Done()
			for j := range jobs {
				d.processPage(log, j.page, j.revs, process)
			}
		}(log)
	}

	readErr := Pages(r, func(page Page, revs []Revision) error {
		jobs <- pageJob{page: page, revs: revs}
		return nil
	})
	close(jobs)
	wg.Wait()
	return readErr
}

func (d *Driver) processPage(log logrus.FieldLogger, page Page, revs []Revision, process ProcessFunc) {
	entry := log.WithFields(logrus.Fields{
		"pageid": page.PageID,
		"title":  page.Title,
	})
	for _, rev := range revs {
		if err := process(page, rev); err != nil {
			entry.WithFields(logrus.Fields{
				"revid": rev.RevID,
				"error": err,
			}).Warn("skipping revision after processing error")
		}
	}
}
