package state

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/p2p"
	"github.com/ardanlabs/ledger/foundation/metrics"
	"golang.org/x/sync/errgroup"
)

// EncodeBlock produces the frame payload used to share a block.
func EncodeBlock(block database.Block) ([]byte, error) {
	msg, err := p2p.NewMessage(p2p.MessageTypeBlock, database.NewBlockData(block))
	if err != nil {
		return nil, err
	}

	return msg.Encode()
}

// DecodeBlock converts a frame payload back into a block. Any problem with
// the encoding is reported as p2p.ErrMalformedPayload.
func DecodeBlock(payload []byte) (database.Block, error) {
	msg, err := p2p.DecodeMessage(payload)
	if err != nil {
		return database.Block{}, err
	}

	if msg.Type != p2p.MessageTypeBlock {
		return database.Block{}, fmt.Errorf("%w: unexpected message type %q", p2p.ErrMalformedPayload, msg.Type)
	}

	var blockData database.BlockData
	if err := msg.ParsePayload(&blockData); err != nil {
		return database.Block{}, err
	}

	return database.ToBlock(blockData), nil
}

// NetReceiveBlock takes the payload of a frame read from a peer, decodes it
// and hands the block to AcceptForeignBlock.
func (s *State) NetReceiveBlock(payload []byte) error {
	block, err := DecodeBlock(payload)
	if err != nil {
		metrics.Inbound(metrics.ResultMalformed)
		return err
	}

	if _, err := s.AcceptForeignBlock(block); err != nil {
		metrics.Inbound(metrics.ResultRejected)
		return err
	}

	metrics.Inbound(metrics.ResultAccepted)

	return nil
}

// NetSendBlockToPeers sends the block to every known peer and returns the
// number of peers that received it. A failure for one peer does not stop
// the others and is only reported through the event handler.
func (s *State) NetSendBlockToPeers(ctx context.Context, block database.Block) int {
	s.evHandler("state: NetSendBlockToPeers: started: blk[%s]", block.Digest)
	defer s.evHandler("state: NetSendBlockToPeers: completed: blk[%s]", block.Digest)

	peers := s.KnownPeers()
	if len(peers) == 0 {
		return 0
	}

	payload, err := EncodeBlock(block)
	if err != nil {
		s.evHandler("state: NetSendBlockToPeers: encode: ERROR: %s", err)
		return 0
	}

	var delivered atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.shareLimit)

	for _, pr := range peers {
		g.Go(func() error {
			if err := p2p.Send(ctx, pr.Host, payload, s.dialTimeout); err != nil {
				s.evHandler("state: NetSendBlockToPeers: WARNING: %s", err)
				metrics.Broadcast(metrics.ResultFailed)
				return nil
			}

			s.evHandler("state: NetSendBlockToPeers: sent to peer[%s]", pr.Host)
			metrics.Broadcast(metrics.ResultDelivered)
			delivered.Add(1)

			return nil
		})
	}

	g.Wait()

	return int(delivered.Load())
}
