package worker

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// maxBlockShareRequests represents the max number of pending block share
// requests that can be outstanding before share requests are dropped. A
// buffered channel of this size is used and once it is full, new blocks
// are appended locally but not shared.
const maxBlockShareRequests = 100

// =============================================================================

// shareBlockOperations handles sharing new blocks.
func (w *Worker) shareBlockOperations() {
	w.evHandler("worker: shareBlockOperations: G started")
	defer w.evHandler("worker: shareBlockOperations: G completed")

	for {
		select {
		case block := <-w.blockSharing:
			if !w.isShutdown() {
				w.runShareBlockOperation(block)
			}
		case <-w.shut:
			w.evHandler("worker: shareBlockOperations: received shut signal")
			return
		}
	}
}

// runShareBlockOperation sends the block to the known peers.
func (w *Worker) runShareBlockOperation(block database.Block) {
	w.evHandler("worker: runShareBlockOperation: started: blk[%s]", block.Digest)
	defer w.evHandler("worker: runShareBlockOperation: completed: blk[%s]", block.Digest)

	delivered := w.state.NetSendBlockToPeers(w.ctx, block)
	w.evHandler("worker: runShareBlockOperation: delivered[%d]", delivered)
}
