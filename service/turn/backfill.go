package turn

import (
	"context"
	"time"

	"github.com/TaisyaFreelanse/twelvesteps/pkg/tools"
	"github.com/TaisyaFreelanse/twelvesteps/repository/factory"
	log "github.com/sirupsen/logrus"
)

const (
	backfillProcessorName   = "embedding_backfill"
	backfillTimeoutPerBatch = 30 * time.Second
)

// backfillWorker 同步 embedding 失败的帧由它异步补偿。
// 复用批处理器做聚批：帧 id 进通道，按批取出重新向量化。
type backfillWorker struct {
	repositoryFactory factory.Factory
	processor         *tools.Processor
}

func newBackfillWorker(repositoryFactory factory.Factory) *backfillWorker {
	w := &backfillWorker{
		repositoryFactory: repositoryFactory,
	}
	w.processor = tools.NewProcessor(backfillProcessorName, tools.GetDefaultConfig(), w.handleBatch)
	return w
}

func (w *backfillWorker) Start() {
	w.processor.Start()
}

func (w *backfillWorker) Stop() {
	w.processor.Stop()
}

func (w *backfillWorker) Enqueue(frameID int64) {
	w.processor.GetMessageChan() <- frameID
}

func (w *backfillWorker) handleBatch(batchData []interface{}) error {
	ids := make([]int64, 0, len(batchData))
	for _, data := range batchData {
		id, ok := data.(int64)
		if !ok {
			log.Errorf("%s: unexpected payload type %T", backfillProcessorName, data)
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), backfillTimeoutPerBatch)
	defer cancel()

	session := w.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	frameRepo, err := w.repositoryFactory.NewFrameRepository(session)
	if err != nil {
		return err
	}

	frames, err := frameRepo.GetByIDs(ids)
	if err != nil {
		return err
	}

	// 重置后的帧已不存在，GetByIDs 静默跳过即可
	pending := frames[:0]
	for _, frame := range frames {
		if frame.EmbeddingID == nil {
			pending = append(pending, frame)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	if err := embedAndStore(ctx, w.repositoryFactory, pending); err != nil {
		return err
	}

	log.Infof("%s: backfilled embeddings for %d frames", backfillProcessorName, len(pending))
	return nil
}
