package board

import "sync"

// buildPhases groups cells by (col%3, row%2). A cell's interaction touches itself
// and its E, SW, S, SE neighbours, so with cols%3 == 0 and rows%2 == 0 no two cells
// of one phase touch the same cell and a phase can run with in-place mutation.
func buildPhases(cols, rows int) [][]int {
	phases := make([][]int, 6)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			k := (row%2)*3 + col%3
			phases[k] = append(phases[k], row*cols+col)
		}
	}
	return phases
}

// workChunk is a slice of one phase's cells for a single worker.
type workChunk struct {
	cells []int
}

// workerPool runs phase chunks on persistent goroutines.
type workerPool struct {
	numWorkers int
	scratches  []counters

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newWorkerPool(numWorkers int) *workerPool {
	return &workerPool{
		numWorkers: numWorkers,
		scratches:  make([]counters, numWorkers),
	}
}

// start launches the worker goroutines.
func (p *workerPool) start(b *Board) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(b, i)
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker(b *Board, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			for _, i := range chunk.cells {
				b.interactCell(i, scratch)
			}
			p.doneChan <- struct{}{}
		}
	}
}

// interactPhased runs the interaction pass phase by phase. Each phase is split
// across the workers; phases run in a fixed order, so the result does not depend
// on the number of workers.
func (b *Board) interactPhased() {
	p := b.pool

	if p.numWorkers == 1 {
		for _, phase := range b.phases {
			for _, i := range phase {
				b.interactCell(i, &p.scratches[0])
			}
		}
	} else {
		p.start(b)
		for _, phase := range b.phases {
			chunkSize := (len(phase) + p.numWorkers - 1) / p.numWorkers

			dispatched := 0
			for start := 0; start < len(phase); start += chunkSize {
				end := min(start+chunkSize, len(phase))
				p.workChan <- workChunk{cells: phase[start:end]}
				dispatched++
			}

			// Wait for the phase before starting the next one
			for i := 0; i < dispatched; i++ {
				<-p.doneChan
			}
		}
	}

	for i := range p.scratches {
		p.scratches[i].flush(&b.stats)
	}
}
