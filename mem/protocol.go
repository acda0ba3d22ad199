// Package mem defines the wire protocol shared by the CPU-facing port of
// the secure memory controller and its two backing-memory ports (data and
// metadata).
package mem

import "github.com/sarchlab/smc/sim"

// AccessReq abstracts read and write requests sent to a backing memory.
type AccessReq interface {
	sim.Msg
	GetAddress() uint64
	GetByteSize() uint64
}

// AccessRsp abstracts responses returned by a backing memory.
type AccessRsp interface {
	sim.Msg
	sim.Rsp
}

// ReadReq asks a backing memory to return the contents at Address.
type ReadReq struct {
	sim.MsgMeta

	Address        uint64
	AccessByteSize uint64
}

// Meta returns the message meta data.
func (r *ReadReq) Meta() *sim.MsgMeta { return &r.MsgMeta }

// GetAddress returns the address being read.
func (r *ReadReq) GetAddress() uint64 { return r.Address }

// GetByteSize returns the number of bytes being read.
func (r *ReadReq) GetByteSize() uint64 { return r.AccessByteSize }

// ReadReqBuilder builds ReadReqs.
type ReadReqBuilder struct {
	src, dst sim.Port
	address  uint64
	byteSize uint64
}

// WithSrc sets the source port of the request to build.
func (b ReadReqBuilder) WithSrc(src sim.Port) ReadReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the request to build.
func (b ReadReqBuilder) WithDst(dst sim.Port) ReadReqBuilder {
	b.dst = dst
	return b
}

// WithAddress sets the address of the request to build.
func (b ReadReqBuilder) WithAddress(address uint64) ReadReqBuilder {
	b.address = address
	return b
}

// WithByteSize sets the byte size of the request to build.
func (b ReadReqBuilder) WithByteSize(byteSize uint64) ReadReqBuilder {
	b.byteSize = byteSize
	return b
}

// Build creates the ReadReq.
func (b ReadReqBuilder) Build() *ReadReq {
	r := &ReadReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.Address = b.address
	r.AccessByteSize = b.byteSize

	return r
}

// WriteReq asks a backing memory to store Data at Address.
type WriteReq struct {
	sim.MsgMeta

	Address        uint64
	AccessByteSize uint64
	Data           []byte

	// ResponseRequired marks whether the original requestor wants an
	// acknowledgement once the write settles. A backing memory always
	// generates a WriteDoneRsp regardless of this flag; it is up to the
	// caller to decide whether that acknowledgement is forwarded further
	// upstream.
	ResponseRequired bool
}

// Meta returns the message meta data.
func (r *WriteReq) Meta() *sim.MsgMeta { return &r.MsgMeta }

// GetAddress returns the address being written.
func (r *WriteReq) GetAddress() uint64 { return r.Address }

// GetByteSize returns the number of bytes being written.
func (r *WriteReq) GetByteSize() uint64 { return r.AccessByteSize }

// WriteReqBuilder builds WriteReqs.
type WriteReqBuilder struct {
	src, dst         sim.Port
	address          uint64
	data             []byte
	responseRequired bool
}

// WithSrc sets the source port of the request to build.
func (b WriteReqBuilder) WithSrc(src sim.Port) WriteReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the request to build.
func (b WriteReqBuilder) WithDst(dst sim.Port) WriteReqBuilder {
	b.dst = dst
	return b
}

// WithAddress sets the address of the request to build.
func (b WriteReqBuilder) WithAddress(address uint64) WriteReqBuilder {
	b.address = address
	return b
}

// WithData sets the payload of the request to build.
func (b WriteReqBuilder) WithData(data []byte) WriteReqBuilder {
	b.data = data
	return b
}

// WithResponseRequired marks that the requestor wants an acknowledgement.
func (b WriteReqBuilder) WithResponseRequired() WriteReqBuilder {
	b.responseRequired = true
	return b
}

// Build creates the WriteReq.
func (b WriteReqBuilder) Build() *WriteReq {
	r := &WriteReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.Address = b.address
	r.Data = b.data
	r.AccessByteSize = uint64(len(b.data))
	r.ResponseRequired = b.responseRequired

	return r
}

// DataReadyRsp carries the data requested by a ReadReq back to the
// requestor.
type DataReadyRsp struct {
	sim.MsgMeta

	RespondTo string
	Address   uint64
	Data      []byte

	// AccessDepth echoes back the level at which the backing memory's
	// caller actually needed to fetch data, letting the requestor learn
	// how far the walk went.
	AccessDepth int
}

// Meta returns the message meta data.
func (r *DataReadyRsp) Meta() *sim.MsgMeta { return &r.MsgMeta }

// GetRspTo returns the ID of the request this response completes.
func (r *DataReadyRsp) GetRspTo() string { return r.RespondTo }

// DataReadyRspBuilder builds DataReadyRsps.
type DataReadyRspBuilder struct {
	src, dst    sim.Port
	rspTo       string
	address     uint64
	data        []byte
	accessDepth int
}

// WithSrc sets the source port of the response to build.
func (b DataReadyRspBuilder) WithSrc(src sim.Port) DataReadyRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the response to build.
func (b DataReadyRspBuilder) WithDst(dst sim.Port) DataReadyRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the ID of the request being completed.
func (b DataReadyRspBuilder) WithRspTo(id string) DataReadyRspBuilder {
	b.rspTo = id
	return b
}

// WithAddress sets the address the response pertains to.
func (b DataReadyRspBuilder) WithAddress(address uint64) DataReadyRspBuilder {
	b.address = address
	return b
}

// WithData sets the payload of the response to build.
func (b DataReadyRspBuilder) WithData(data []byte) DataReadyRspBuilder {
	b.data = data
	return b
}

// WithAccessDepth sets the echoed access-depth of the response to build.
func (b DataReadyRspBuilder) WithAccessDepth(depth int) DataReadyRspBuilder {
	b.accessDepth = depth
	return b
}

// Build creates the DataReadyRsp.
func (b DataReadyRspBuilder) Build() *DataReadyRsp {
	r := &DataReadyRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.RespondTo = b.rspTo
	r.Address = b.address
	r.Data = b.data
	r.AccessDepth = b.accessDepth

	return r
}

// WriteDoneRsp confirms that a WriteReq has been committed.
type WriteDoneRsp struct {
	sim.MsgMeta

	RespondTo   string
	Address     uint64
	AccessDepth int
}

// Meta returns the message meta data.
func (r *WriteDoneRsp) Meta() *sim.MsgMeta { return &r.MsgMeta }

// GetRspTo returns the ID of the request this response completes.
func (r *WriteDoneRsp) GetRspTo() string { return r.RespondTo }

// WriteDoneRspBuilder builds WriteDoneRsps.
type WriteDoneRspBuilder struct {
	src, dst    sim.Port
	rspTo       string
	address     uint64
	accessDepth int
}

// WithSrc sets the source port of the response to build.
func (b WriteDoneRspBuilder) WithSrc(src sim.Port) WriteDoneRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the response to build.
func (b WriteDoneRspBuilder) WithDst(dst sim.Port) WriteDoneRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the ID of the request being completed.
func (b WriteDoneRspBuilder) WithRspTo(id string) WriteDoneRspBuilder {
	b.rspTo = id
	return b
}

// WithAddress sets the address the response pertains to.
func (b WriteDoneRspBuilder) WithAddress(address uint64) WriteDoneRspBuilder {
	b.address = address
	return b
}

// WithAccessDepth sets the echoed access-depth of the response to build.
func (b WriteDoneRspBuilder) WithAccessDepth(depth int) WriteDoneRspBuilder {
	b.accessDepth = depth
	return b
}

// Build creates the WriteDoneRsp.
func (b WriteDoneRspBuilder) Build() *WriteDoneRsp {
	r := &WriteDoneRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.RespondTo = b.rspTo
	r.Address = b.address
	r.AccessDepth = b.accessDepth

	return r
}
